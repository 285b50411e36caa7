/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// AddUniqueRR appends rr unless an RR with the same class, type and rdata is
// already present. Owner names and TTLs are not compared; callers only use it
// within one RRset.
func AddUniqueRR(rrs []dns.RR, rr dns.RR) []dns.RR {
	for _, old := range rrs {
		if SameRdata(old, rr) {
			return rrs
		}
	}
	return append(rrs, rr)
}

// SameRdata compares the wire format rdata of a and b, so that e.g. CDS
// digests in upper and lower case are the same.
func SameRdata(a, b dns.RR) bool {
	ha, hb := a.Header(), b.Header()
	if ha.Rrtype != hb.Rrtype || ha.Class != hb.Class {
		return false
	}
	wa, erra := packRdata(a)
	wb, errb := packRdata(b)
	if erra != nil || errb != nil {
		return dns.IsDuplicate(a, b)
	}
	return bytes.Equal(wa, wb)
}

func packRdata(rr dns.RR) ([]byte, error) {
	c := dns.Copy(rr)
	c.Header().Name = "."
	c.Header().Ttl = 0
	buf := make([]byte, dns.Len(c)+1)
	off, err := dns.PackRR(c, buf, 0, nil, false)
	if err != nil {
		return nil, err
	}
	return buf[:off], nil
}

func RRsetToString(rrs []dns.RR) string {
	var tmp string
	for _, rr := range rrs {
		tmp += rr.String() + "\n"
	}
	return tmp
}

// RelativeName returns name relative to origin, "@" for the origin itself.
// Names outside origin are returned unchanged (i.e. absolute).
func RelativeName(name, origin string) string {
	if strings.EqualFold(name, origin) {
		return "@"
	}
	if origin == "." {
		return strings.TrimSuffix(name, ".")
	}
	if dns.IsSubDomain(origin, name) {
		return name[:len(name)-len(origin)-1]
	}
	return name
}

// RRToZoneLine renders rr the way it is written in a zone file with $ORIGIN origin.
func RRToZoneLine(rr dns.RR, origin string) string {
	hdr := rr.Header()
	rdata := strings.TrimPrefix(rr.String(), hdr.String())
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s", RelativeName(hdr.Name, origin), hdr.Ttl,
		dns.ClassToString[hdr.Class], dns.TypeToString[hdr.Rrtype], rdata)
}

// ParentName strips the leftmost label, "_signal.ns1.example.net." becomes
// "ns1.example.net.".
func ParentName(name string) string {
	name = dns.Fqdn(name)
	off, end := dns.NextLabel(name, 0)
	if end {
		return "."
	}
	return name[off:]
}
