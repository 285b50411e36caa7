package dsboot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/miekg/dns"
)

const (
	testCDS1    = "60485 8 2 D4B7D520E7BB5F0F67674A0CCEB1E3E0614B93C4F9E99B8383F6A1E4469DA50A"
	testCDS2    = "60486 8 2 E06D44B80B8F1D39A95C0B0D7C65D08458E880409BBC683457104237C7F8EC8D"
	testCDNSKEY = "257 3 15 mdsswUyr3DPW132mOi8V9xESWE8jTo0dxCjjnopKl+GqJxpVXckHAeF+KkxLbxILfDLUT0rAK9iUzy1L53eKGQ=="
)

func newTestGenerator(t *testing.T, nameservers ...string) *Generator {
	t.Helper()
	return NewGenerator(GeneratorConf{
		Nameservers: nameservers,
		ZoneDir:     t.TempDir(),
		Logger:      quietLogger(),
	})
}

func mustProcess(t *testing.T, g *Generator, input string) {
	t.Helper()
	if err := g.Process(strings.NewReader(input)); err != nil {
		t.Fatalf("Process: %v", err)
	}
}

func mustRRset(t *testing.T, g *Generator, domain, owner string, rrtype uint16) *RRset {
	t.Helper()
	sz, ok := g.Zones.Get(domain)
	if !ok {
		t.Fatalf("no signaling zone %s", domain)
	}
	rrset, ok := sz.GetRRset(owner, rrtype)
	if !ok {
		t.Fatalf("zone %s: no %s RRset at %s", domain, dns.TypeToString[rrtype], owner)
	}
	return rrset
}

func TestProcessExample(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, "example.com. 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n")

	rrset := mustRRset(t, g, "_signal.ns1.example.net.", "_dsboot.example.com._signal.ns1.example.net.", dns.TypeCDS)
	if len(rrset.RRs) != 1 {
		t.Fatalf("got %d CDS RRs, want 1", len(rrset.RRs))
	}
	cds := rrset.RRs[0].(*dns.CDS)
	if cds.Hdr.Ttl != 3600 || cds.KeyTag != 60485 {
		t.Errorf("unexpected CDS: %s", cds.String())
	}

	apex := mustRRset(t, g, "_signal.ns1.example.net.", "_signal.ns1.example.net.", dns.TypeNS)
	if len(apex.RRs) != 1 {
		t.Fatalf("got %d apex NS RRs, want 1", len(apex.RRs))
	}
	ns := apex.RRs[0].(*dns.NS)
	if ns.Ns != "ns1.example.net." || ns.Hdr.Ttl != SignalingNsTTL {
		t.Errorf("unexpected apex NS: %s", ns.String())
	}
}

func TestProcessMinTTL(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, "example.com. 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n"+
		"example.com. 1800 IN CDS "+testCDS2+"\n")

	rrset := mustRRset(t, g, "_signal.ns1.example.net.", "_dsboot.example.com._signal.ns1.example.net.", dns.TypeCDS)
	if len(rrset.RRs) != 2 {
		t.Fatalf("got %d CDS RRs, want 2", len(rrset.RRs))
	}
	for _, rr := range rrset.RRs {
		if rr.Header().Ttl != 1800 {
			t.Errorf("TTL: got %d, want 1800: %s", rr.Header().Ttl, rr.String())
		}
	}
}

func TestProcessRootSignalIsFatal(t *testing.T) {
	for _, rrtype := range []string{"CDS " + testCDS1, "CDNSKEY " + testCDNSKEY} {
		t.Run(strings.Fields(rrtype)[0], func(t *testing.T) {
			g := newTestGenerator(t)
			err := g.Process(strings.NewReader(". 3600 IN " + rrtype + "\n"))
			if !errors.Is(err, ErrRootSignal) {
				t.Fatalf("expected ErrRootSignal, got %v", err)
			}
		})
	}
}

func TestProcessSkipsMalformed(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, "\n"+
		"short line\n"+
		"example.com. 3600 IN NS\n"+ // no target
		"example.com. 3600 IN CDS not a cds\n"+
		"example.com. 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n")

	rrset := mustRRset(t, g, "_signal.ns1.example.net.", "_dsboot.example.com._signal.ns1.example.net.", dns.TypeCDS)
	if len(rrset.RRs) != 1 {
		t.Errorf("got %d CDS RRs, want 1", len(rrset.RRs))
	}
}

func TestProcessInBailiwick(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, "example.com. 3600 IN NS ns1.example.com.\n"+
		"example.com. 3600 IN NS ns2.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n"+
		"sub.example.net. 3600 IN NS ns1.sub.example.net.\n"+
		"sub.example.net. 3600 IN CDS "+testCDS2+"\n")

	if _, ok := g.Zones.Get("_signal.ns1.example.com."); ok {
		t.Errorf("in-bailiwick signaling zone _signal.ns1.example.com. should not exist")
	}
	if _, ok := g.Zones.Get("_signal.ns1.sub.example.net."); ok {
		t.Errorf("in-bailiwick signaling zone _signal.ns1.sub.example.net. should not exist")
	}
	mustRRset(t, g, "_signal.ns2.example.net.", "_dsboot.example.com._signal.ns2.example.net.", dns.TypeCDS)
	if g.Zones.Count() != 1 {
		t.Errorf("got %d signaling zones, want 1: %v", g.Zones.Count(), g.Zones.Keys())
	}
}

func TestProcessInheritsRootDomains(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, ". 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n"+
		". 3600 IN NS ns2.example.net.\n"+
		"example.org. 3600 IN CDS "+testCDS2+"\n")

	// example.com. inherits ns1 only; the second root group replaces the defaults.
	mustRRset(t, g, "_signal.ns1.example.net.", "_dsboot.example.com._signal.ns1.example.net.", dns.TypeCDS)
	mustRRset(t, g, "_signal.ns2.example.net.", "_dsboot.example.org._signal.ns2.example.net.", dns.TypeCDS)

	sz, _ := g.Zones.Get("_signal.ns1.example.net.")
	if _, ok := sz.GetOwner("_dsboot.example.org._signal.ns1.example.net."); ok {
		t.Errorf("example.org. should only use the most recent root nameservers")
	}
}

func TestProcessExplicitNameservers(t *testing.T) {
	g := newTestGenerator(t, "ns9.example.org")
	mustProcess(t, g, ". 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n")

	if got := g.Zones.Keys(); len(got) != 1 || got[0] != "_signal.ns9.example.org." {
		t.Fatalf("signaling zones: got %v, want [_signal.ns9.example.org.]", got)
	}
	mustRRset(t, g, "_signal.ns9.example.org.", "_dsboot.example.com._signal.ns9.example.org.", dns.TypeCDS)
}

func TestInsertIsIdempotent(t *testing.T) {
	g := newTestGenerator(t)
	input := "example.com. 3600 IN NS ns1.example.net.\n" +
		"example.com. 3600 IN CDS " + testCDS1 + "\n" +
		"example.com. 3600 IN CDNSKEY " + testCDNSKEY + "\n"

	mustProcess(t, g, input)
	sz, _ := g.Zones.Get("_signal.ns1.example.net.")
	first, err := sz.ZoneText()
	if err != nil {
		t.Fatalf("ZoneText: %v", err)
	}

	mustProcess(t, g, input)
	second, err := sz.ZoneText()
	if err != nil {
		t.Fatalf("ZoneText: %v", err)
	}
	if first != second {
		t.Errorf("second run changed the zone:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestInsertReplacesPreviousData(t *testing.T) {
	g := newTestGenerator(t)
	domains := NewDomainSet("_signal.ns1.example.net.")

	signals := map[uint16]*SignalData{
		dns.TypeCDS:     {TTL: 3600, RRs: []dns.RR{mustRR(t, "example.com. 3600 IN CDS "+testCDS1)}},
		dns.TypeCDNSKEY: {TTL: 3600, RRs: []dns.RR{mustRR(t, "example.com. 3600 IN CDNSKEY "+testCDNSKEY)}},
	}
	if err := g.Insert("example.com.", domains, signals); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	signals = map[uint16]*SignalData{
		dns.TypeCDS: {TTL: 600, RRs: []dns.RR{mustRR(t, "example.com. 600 IN CDS "+testCDS2)}},
	}
	if err := g.Insert("example.com.", domains, signals); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	owner := "_dsboot.example.com._signal.ns1.example.net."
	rrset := mustRRset(t, g, "_signal.ns1.example.net.", owner, dns.TypeCDS)
	if len(rrset.RRs) != 1 || rrset.RRs[0].(*dns.CDS).KeyTag != 60486 || rrset.RRs[0].Header().Ttl != 600 {
		t.Errorf("CDS not replaced: %v", rrset.RRs)
	}
	sz, _ := g.Zones.Get("_signal.ns1.example.net.")
	if _, ok := sz.GetRRset(owner, dns.TypeCDNSKEY); ok {
		t.Errorf("old CDNSKEY RRset should be gone")
	}
}

func TestWritePrint(t *testing.T) {
	g := newTestGenerator(t)
	mustProcess(t, g, "example.com. 3600 IN NS ns1.example.net.\n"+
		"example.com. 3600 IN NS ns2.example.net.\n"+
		"example.com. 3600 IN CDS "+testCDS1+"\n")

	var buf bytes.Buffer
	if err := g.Write(false, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"$ORIGIN _signal.ns1.example.net.\n",
		"$ORIGIN _signal.ns2.example.net.\n",
		"_dsboot.example.com\t3600\tIN\tCDS\t" + testCDS1 + "\n",
		"@\t3600\tIN\tNS\tns2.example.net.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "\n\n$ORIGIN") {
		t.Errorf("zones should be separated by an empty line:\n%s", out)
	}
}

func TestSignalingName(t *testing.T) {
	if got := SignalingName("example.com", "_signal.ns1.example.net."); got != "_dsboot.example.com._signal.ns1.example.net." {
		t.Errorf("SignalingName: got %q", got)
	}
}
