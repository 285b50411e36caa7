/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miekg/dns"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/twotwotwo/sorts"
)

// NewSignalingZone returns an empty zone for the signaling domain.
func NewSignalingZone(domain string) *SignalingZone {
	return &SignalingZone{
		ZoneName: dns.Fqdn(domain),
		Data:     cmap.New[OwnerData](),
	}
}

// NewPrimedSignalingZone returns a new signaling zone holding only the apex NS
// RR, pointing to the nameserver that the zone belongs to.
func NewPrimedSignalingZone(domain string) (*SignalingZone, error) {
	sz := NewSignalingZone(domain)
	rr, err := dns.NewRR(fmt.Sprintf("%s %d IN NS %s", sz.ZoneName, SignalingNsTTL, ParentName(sz.ZoneName)))
	if err != nil {
		return nil, fmt.Errorf("NewPrimedSignalingZone: %s: %v", sz.ZoneName, err)
	}
	if err := sz.AddRR(rr); err != nil {
		return nil, err
	}
	sz.Dirty = true
	return sz, nil
}

// AddRR adds rr to the RRset at its owner. RRSIGs are kept with the RRset they cover.
func (sz *SignalingZone) AddRR(rr dns.RR) error {
	owner := rr.Header().Name
	if !dns.IsSubDomain(sz.ZoneName, owner) {
		return fmt.Errorf("AddRR: record %s is not within zone %s", owner, sz.ZoneName)
	}

	key := dns.CanonicalName(owner)
	od, ok := sz.Data.Get(key)
	if !ok {
		od = *NewOwnerData(owner)
	}

	rrtype := rr.Header().Rrtype
	sig, isSig := rr.(*dns.RRSIG)
	if isSig {
		rrtype = sig.TypeCovered
	}
	rrset := od.RRtypes.GetOnlyRRSet(rrtype)
	rrset.Name = owner
	if isSig {
		rrset.RRSIGs = append(rrset.RRSIGs, rr)
	} else {
		rrset.RRs = AddUniqueRR(rrset.RRs, rr)
	}
	od.RRtypes.Set(rrtype, rrset)
	sz.Data.Set(key, od)
	return nil
}

func (sz *SignalingZone) GetOwner(name string) (*OwnerData, bool) {
	od, ok := sz.Data.Get(dns.CanonicalName(name))
	if !ok {
		return nil, false
	}
	return &od, true
}

func (sz *SignalingZone) GetRRset(name string, rrtype uint16) (*RRset, bool) {
	od, ok := sz.GetOwner(name)
	if !ok {
		return nil, false
	}
	rrset, ok := od.RRtypes.Get(rrtype)
	if !ok {
		return nil, false
	}
	return &rrset, true
}

// DeleteOwner removes the node at name including all its RRsets.
func (sz *SignalingZone) DeleteOwner(name string) {
	sz.Data.Remove(dns.CanonicalName(name))
}

// ReplaceRRset installs rrs at name with the given TTL, replacing whatever RRset
// of the same type was there before.
func (sz *SignalingZone) ReplaceRRset(name string, rrtype uint16, ttl uint32, rrs []dns.RR) error {
	name = dns.Fqdn(name)
	if !dns.IsSubDomain(sz.ZoneName, name) {
		return fmt.Errorf("ReplaceRRset: %s is not within zone %s", name, sz.ZoneName)
	}

	key := dns.CanonicalName(name)
	od, ok := sz.Data.Get(key)
	if !ok {
		od = *NewOwnerData(name)
	}

	rrset := RRset{Name: name}
	for _, rr := range rrs {
		if rr.Header().Rrtype != rrtype {
			return fmt.Errorf("ReplaceRRset: %s: expected %s, got %s", name,
				dns.TypeToString[rrtype], dns.TypeToString[rr.Header().Rrtype])
		}
		nrr := dns.Copy(rr)
		nrr.Header().Name = name
		nrr.Header().Ttl = ttl
		rrset.RRs = AddUniqueRR(rrset.RRs, nrr)
	}
	od.RRtypes.Set(rrtype, rrset)
	sz.Data.Set(key, od)
	sz.Dirty = true
	return nil
}

// SortedOwners returns the owners of the zone, apex first and the rest in
// canonical order.
func (sz *SignalingZone) SortedOwners() Owners {
	var owners Owners
	var apex *OwnerData
	apexkey := dns.CanonicalName(sz.ZoneName)
	for item := range sz.Data.IterBuffered() {
		od := item.Val
		if item.Key == apexkey {
			apex = &od
			continue
		}
		owners = append(owners, od)
	}
	quickSort(owners)
	if apex != nil {
		owners = append(Owners{*apex}, owners...)
	}
	return owners
}

// Children returns the child zones that have signaling records in this zone.
func (sz *SignalingZone) Children() []string {
	var children []string
	prefix := DsbootLabel + "."
	for _, od := range sz.SortedOwners() {
		if od.RRtypes.Count() == 0 {
			continue
		}
		rel := RelativeName(od.Name, sz.ZoneName)
		if len(rel) <= len(prefix) || !strings.EqualFold(rel[:len(prefix)], prefix) {
			continue
		}
		children = append(children, rel[len(prefix):]+".")
	}
	return children
}

func (sz *SignalingZone) RRCount() int {
	count := 0
	for item := range sz.Data.IterBuffered() {
		for _, rrt := range item.Val.RRtypes.Keys() {
			rrset := item.Val.RRtypes.GetOnlyRRSet(rrt)
			count += len(rrset.RRs) + len(rrset.RRSIGs)
		}
	}
	return count
}

func quickSort(sortable sort.Interface) {
	sorts.Quicksort(sortable)
}

func (owners Owners) Len() int {
	return len(owners)
}

func (owners Owners) Swap(i, j int) {
	owners[i], owners[j] = owners[j], owners[i]
}

func (owners Owners) Less(i, j int) bool {
	return canonicalLess(owners[i].Name, owners[j].Name)
}

// canonicalLess orders names as in RFC 4034 section 6.1, comparing labels
// from the right.
func canonicalLess(a, b string) bool {
	la := dns.SplitDomainName(dns.CanonicalName(a))
	lb := dns.SplitDomainName(dns.CanonicalName(b))
	for i, j := len(la)-1, len(lb)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if la[i] != lb[j] {
			return la[i] < lb[j]
		}
	}
	return len(la) < len(lb)
}
