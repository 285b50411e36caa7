/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"github.com/miekg/dns"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// SignalingZone is the in-memory form of a zone _signal.{nameserver}.
type SignalingZone struct {
	ZoneName string
	Data     cmap.ConcurrentMap[string, OwnerData] // map[canonical ownername]OwnerData
	Zonefile string                                // set when the zone was read from disk
	Dirty    bool
}

type OwnerData struct {
	Name    string
	RRtypes *RRTypeStore
}

type RRset struct {
	Name   string
	RRs    []dns.RR
	RRSIGs []dns.RR
}

// SignalData is what has been collected for one rrtype of one child: the
// lowest TTL seen and the distinct RRs.
type SignalData struct {
	TTL uint32
	RRs []dns.RR
}

// Owners is a sortable list of owner names.
type Owners []OwnerData
