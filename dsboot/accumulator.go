/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"strings"

	"github.com/miekg/dns"
)

// DomainSet is a set of domain names, keyed by canonical name with the
// presentation form as value.
type DomainSet map[string]string

func NewDomainSet(names ...string) DomainSet {
	ds := make(DomainSet, len(names))
	for _, name := range names {
		ds.Add(name)
	}
	return ds
}

func (ds DomainSet) Add(name string) {
	name = dns.Fqdn(name)
	ds[dns.CanonicalName(name)] = name
}

func (ds DomainSet) Contains(name string) bool {
	_, ok := ds[dns.CanonicalName(dns.Fqdn(name))]
	return ok
}

// Union returns a new set; neither ds nor other are modified.
func (ds DomainSet) Union(other DomainSet) DomainSet {
	res := make(DomainSet, len(ds)+len(other))
	for k, v := range ds {
		res[k] = v
	}
	for k, v := range other {
		if _, exist := res[k]; !exist {
			res[k] = v
		}
	}
	return res
}

// Sorted returns the names in canonical order.
func (ds DomainSet) Sorted() []string {
	owners := make(Owners, 0, len(ds))
	for _, name := range ds {
		owners = append(owners, OwnerData{Name: name})
	}
	quickSort(owners)
	res := make([]string, 0, len(owners))
	for _, od := range owners {
		res = append(res, od.Name)
	}
	return res
}

// SignalingDomainFor returns _signal.{nameserver}.
func SignalingDomainFor(nameserver string) string {
	nameserver = dns.Fqdn(nameserver)
	if nameserver == "." {
		return SignalLabel + "."
	}
	return SignalLabel + "." + nameserver
}

type AccState uint8

const (
	AccEmpty AccState = iota + 1
	AccCollecting
	AccFlushed
)

var AccStateToString = map[AccState]string{
	AccEmpty:      "empty",
	AccCollecting: "collecting",
	AccFlushed:    "flushed",
}

// Accumulator collects the records of one owner name. Records for an owner
// name are expected to be contiguous in the input.
type Accumulator struct {
	State   AccState
	Name    string
	Domains DomainSet
	Signals map[uint16]*SignalData
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		State: AccEmpty,
	}
}

// Start begins a new group for name, discarding whatever was collected before.
func (acc *Accumulator) Start(name string) {
	acc.State = AccCollecting
	acc.Name = dns.Fqdn(name)
	acc.Domains = DomainSet{}
	acc.Signals = map[uint16]*SignalData{}
}

func (acc *Accumulator) Collecting() bool {
	return acc.State == AccCollecting
}

// Owns reports whether name belongs to the group being collected.
func (acc *Accumulator) Owns(name string) bool {
	return acc.State == AccCollecting && strings.EqualFold(acc.Name, dns.Fqdn(name))
}

func (acc *Accumulator) IsRoot() bool {
	return acc.Name == "."
}

// AddNS records the signaling domain of the nameserver that ns delegates to.
func (acc *Accumulator) AddNS(ns *dns.NS) {
	acc.Domains.Add(SignalingDomainFor(ns.Ns))
}

// AddSignal folds a CDS or CDNSKEY RR into the group: the TTL kept is the
// lowest seen for the rrtype and identical rdata is only kept once.
func (acc *Accumulator) AddSignal(rr dns.RR) {
	rrtype := rr.Header().Rrtype
	ttl := rr.Header().Ttl
	sd, ok := acc.Signals[rrtype]
	if !ok {
		sd = &SignalData{TTL: ttl}
		acc.Signals[rrtype] = sd
	}
	if ttl < sd.TTL {
		sd.TTL = ttl
	}
	sd.RRs = AddUniqueRR(sd.RRs, rr)
}

// Flush hands over the collected data and leaves the accumulator in the
// flushed state.
func (acc *Accumulator) Flush() (string, DomainSet, map[uint16]*SignalData) {
	name, domains, signals := acc.Name, acc.Domains, acc.Signals
	acc.State = AccFlushed
	acc.Name = ""
	acc.Domains = nil
	acc.Signals = nil
	return name, domains, signals
}
