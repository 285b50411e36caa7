package dsboot

import (
	"github.com/miekg/dns"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/twotwotwo/sorts"
)

type RRTypeStore struct {
	data cmap.ConcurrentMap[uint16, RRset]
}

func NewRRTypeStore() *RRTypeStore {
	return &RRTypeStore{
		data: cmap.NewWithCustomShardingFunction[uint16, RRset](func(key uint16) uint32 {
			return uint32(key)
		}),
	}
}

func (s *RRTypeStore) Get(key uint16) (RRset, bool) {
	return s.data.Get(key)
}

func (s *RRTypeStore) GetOnlyRRSet(key uint16) RRset {
	rrset, _ := s.data.Get(key)
	return rrset
}

func (s *RRTypeStore) Set(key uint16, value RRset) {
	s.data.Set(key, value)
}

func (s *RRTypeStore) Delete(key uint16) {
	s.data.Remove(key)
}

func (s *RRTypeStore) Count() int {
	return s.data.Count()
}

func (s *RRTypeStore) Keys() []uint16 {
	return s.data.Keys()
}

func NewOwnerData(name string) *OwnerData {
	return &OwnerData{
		Name:    name,
		RRtypes: NewRRTypeStore(),
	}
}

// SortedKeys returns the rrtypes present, SOA first and the rest in numeric order.
func (s *RRTypeStore) SortedKeys() []uint16 {
	keys := rrtypeList(s.data.Keys())
	sorts.Quicksort(keys)
	return keys
}

type rrtypeList []uint16

func (l rrtypeList) Len() int {
	return len(l)
}

func (l rrtypeList) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l rrtypeList) Less(i, j int) bool {
	if l[i] == dns.TypeSOA {
		return l[j] != dns.TypeSOA
	}
	if l[j] == dns.TypeSOA {
		return false
	}
	return l[i] < l[j]
}
