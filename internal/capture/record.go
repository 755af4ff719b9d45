/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package capture

import (
	"fmt"
	"log/slog"
	"net/netip"
	"syscall"
	"time"

	"github.com/ti-mo/conntrack"

	"github.com/tschaefer/flowlens/internal/flow"
)

// toRecord maps a conntrack event to the dashboard flow schema.
func toRecord(event conntrack.Event) flow.Record {
	record := flow.Record{
		flow.FieldType:         getType(event),
		flow.FieldFlowID:       uint64(event.Flow.ID),
		flow.FieldProto:        getProtocol(event),
		flow.FieldSrcAddr:      event.Flow.TupleOrig.IP.SourceAddress.String(),
		flow.FieldDstAddr:      event.Flow.TupleOrig.IP.DestinationAddress.String(),
		flow.FieldSrcPort:      uint64(event.Flow.TupleOrig.Proto.SourcePort),
		flow.FieldDstPort:      uint64(event.Flow.TupleOrig.Proto.DestinationPort),
		flow.FieldTimeReceived: time.Now().Unix(),
	}

	if state, ok := getTCPState(event); ok && state != "" {
		record[flow.FieldTCPState] = state
	}

	return record
}

// export writes one record to the sink logger, flow fields as attrs.
func export(record flow.Record, logger *slog.Logger) {
	attrs := make([]any, 0, 2*len(record))
	for key, value := range record {
		attrs = append(attrs, slog.Any(key, value))
	}

	eType, _ := record.Field(flow.FieldType)
	proto, _ := record.Field(flow.FieldProto)
	src, _ := record.Field(flow.FieldSrcAddr)
	srcPort, _ := record.Field(flow.FieldSrcPort)
	dst, _ := record.Field(flow.FieldDstAddr)
	dstPort, _ := record.Field(flow.FieldDstPort)

	msg := fmt.Sprintf("%s %s connection from %s to %s",
		eType, proto,
		formatAddrPort(src, srcPort),
		formatAddrPort(dst, dstPort),
	)

	logger.Info(msg, attrs...)
}

func getProtocol(event conntrack.Event) string {
	protocols := map[int]string{
		syscall.IPPROTO_TCP: "TCP",
		syscall.IPPROTO_UDP: "UDP",
	}
	if prot, ok := protocols[int(event.Flow.TupleOrig.Proto.Protocol)]; ok {
		return prot
	}
	return ""
}

func getType(event conntrack.Event) string {
	switch event.Type {
	case conntrack.EventNew:
		return "NEW"
	case conntrack.EventUpdate:
		return "UPDATE"
	case conntrack.EventDestroy:
		return "DESTROY"
	default:
		return ""
	}
}

func getTCPState(event conntrack.Event) (string, bool) {
	if event.Flow.ProtoInfo.TCP == nil {
		return "", false
	}

	state := event.Flow.ProtoInfo.TCP.State
	states := map[uint8]string{
		0: "NONE",
		1: "SYN_SENT",
		2: "SYN_RECV",
		3: "ESTABLISHED",
		4: "FIN_WAIT",
		5: "CLOSE_WAIT",
		6: "LAST_ACK",
		7: "TIME_WAIT",
		8: "CLOSE",
	}
	if s, ok := states[state]; ok {
		return s, true
	}

	return "", true
}

func formatAddrPort(addr, port string) string {
	if parsed, err := netip.ParseAddr(addr); err == nil && parsed.Is6() {
		return fmt.Sprintf("[%s]:%s", addr, port)
	}
	return fmt.Sprintf("%s:%s", addr, port)
}
