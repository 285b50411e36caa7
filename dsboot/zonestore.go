/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"github.com/miekg/dns"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// ZoneStore holds the signaling zones touched during a run, keyed by the
// canonical form of the signaling domain.
type ZoneStore struct {
	zones cmap.ConcurrentMap[string, *SignalingZone]
}

func NewZoneStore() *ZoneStore {
	return &ZoneStore{
		zones: cmap.New[*SignalingZone](),
	}
}

func (zs *ZoneStore) Get(domain string) (*SignalingZone, bool) {
	return zs.zones.Get(dns.CanonicalName(domain))
}

// GetOrCreate returns the cached zone for domain. On first use create is called
// and its result is cached for the rest of the run.
func (zs *ZoneStore) GetOrCreate(domain string, create func() (*SignalingZone, error)) (*SignalingZone, error) {
	key := dns.CanonicalName(domain)
	if sz, ok := zs.zones.Get(key); ok {
		return sz, nil
	}
	sz, err := create()
	if err != nil {
		return nil, err
	}
	if !zs.zones.SetIfAbsent(key, sz) {
		sz, _ = zs.zones.Get(key)
	}
	return sz, nil
}

func (zs *ZoneStore) Count() int {
	return zs.zones.Count()
}

// Keys returns the signaling domains in canonical order.
func (zs *ZoneStore) Keys() []string {
	keys := zs.zones.Keys()
	owners := make(Owners, 0, len(keys))
	for _, k := range keys {
		owners = append(owners, OwnerData{Name: k})
	}
	quickSort(owners)
	res := make([]string, 0, len(owners))
	for _, od := range owners {
		res = append(res, od.Name)
	}
	return res
}

// Zones returns the cached zones in the order of Keys.
func (zs *ZoneStore) Zones() []*SignalingZone {
	var res []*SignalingZone
	for _, k := range zs.Keys() {
		if sz, ok := zs.zones.Get(k); ok {
			res = append(res, sz)
		}
	}
	return res
}
