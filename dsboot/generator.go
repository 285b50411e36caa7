/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gookit/goutil/dump"
	"github.com/miekg/dns"
)

// Longest zone file line we accept. DNSKEY and CDNSKEY RRs with large RSA keys
// are well below this.
const maxLineLength = 1024 * 1024

type GeneratorConf struct {
	Nameservers []string // explicit nameservers; NS records are then ignored
	ReadFiles   bool     // merge into existing signaling zone files
	ZoneDir     string   // where signaling zone files are read and written
	Zones       *ZoneStore
	Logger      *log.Logger
	Verbose     bool
	Debug       bool
}

// Generator turns the CDS/CDNSKEY and NS records of a parent zone into
// signaling zones for the nameservers of the children.
type Generator struct {
	SignalingDomains DomainSet
	ReadFiles        bool
	ZoneDir          string
	Zones            *ZoneStore
	Logger           *log.Logger
	Verbose          bool
	Debug            bool
}

func NewGenerator(conf GeneratorConf) *Generator {
	g := &Generator{
		SignalingDomains: DomainSet{},
		ReadFiles:        conf.ReadFiles,
		ZoneDir:          conf.ZoneDir,
		Zones:            conf.Zones,
		Logger:           conf.Logger,
		Verbose:          conf.Verbose || conf.Debug,
		Debug:            conf.Debug,
	}
	for _, ns := range conf.Nameservers {
		g.SignalingDomains.Add(SignalingDomainFor(ns))
	}
	if g.Zones == nil {
		g.Zones = NewZoneStore()
	}
	if g.Logger == nil {
		g.Logger = log.Default()
	}
	if g.ZoneDir == "" {
		g.ZoneDir = "."
	}
	return g
}

// Process reads zone file data from r in a single pass and merges the
// CDS/CDNSKEY records of every child into the signaling zones of its
// nameservers.
func (g *Generator) Process(r io.Reader) error {
	var lineno int
	acc := NewAccumulator()
	defaults := DomainSet{} // from the NS RRs at the root, for children without NS

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		switch fields[3] {
		case "CDS", "CDNSKEY", "NS":
		default:
			continue
		}

		rrs, err := parseLine(line, lineno)
		if err != nil {
			if g.Debug {
				g.Logger.Printf("Process: skipping line %d: %v", lineno, err)
			}
			continue
		}

		for _, rr := range rrs {
			rrtype := rr.Header().Rrtype
			owner := rr.Header().Name

			if len(g.SignalingDomains) > 0 && rrtype == dns.TypeNS {
				continue
			}
			switch rrtype {
			case dns.TypeCDS, dns.TypeCDNSKEY, dns.TypeNS:
			default:
				if g.Debug {
					g.Logger.Printf("Process: Ignoring record %s/%s", owner, dns.TypeToString[rrtype])
				}
				continue
			}
			if rrtype != dns.TypeNS && owner == "." {
				return fmt.Errorf("%w: %s", ErrRootSignal, line)
			}

			if acc.Collecting() && !acc.Owns(owner) {
				if err := g.flush(acc, &defaults); err != nil {
					return err
				}
			}
			if !acc.Collecting() {
				acc.Start(owner)
			}

			if ns, ok := rr.(*dns.NS); ok {
				acc.AddNS(ns)
			} else {
				acc.AddSignal(rr)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("Process: error reading input at line %d: %v", lineno, err)
	}

	if acc.Collecting() {
		return g.flush(acc, &defaults)
	}
	return nil
}

// flush completes the current group. A root group only provides the default
// signaling domains; any other group is inserted.
func (g *Generator) flush(acc *Accumulator, defaults *DomainSet) error {
	if g.Debug {
		dump.Fprint(g.Logger.Writer(), acc)
	}
	if acc.IsRoot() {
		_, domains, _ := acc.Flush()
		*defaults = domains
		if g.Verbose {
			g.Logger.Printf("Process: default signaling domains: %v", domains.Sorted())
		}
		return nil
	}

	child, domains, signals := acc.Flush()
	if len(domains) == 0 {
		domains = *defaults
	}
	return g.Insert(child, domains, signals)
}

func parseLine(line string, lineno int) ([]dns.RR, error) {
	var rrs []dns.RR
	zp := dns.NewZoneParser(strings.NewReader(line), ".", fmt.Sprintf("stdin:%d", lineno))
	zp.SetIncludeAllowed(false)
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		rrs = append(rrs, rr)
	}
	if err := zp.Err(); err != nil {
		return nil, err
	}
	return rrs, nil
}

// Insert merges the signaling data for child into the signaling zone of every
// applicable signaling domain. Any earlier signaling data for child in those
// zones is replaced.
func (g *Generator) Insert(child string, domains DomainSet, signals map[uint16]*SignalData) error {
	child = dns.Fqdn(child)
	targets := domains.Union(g.SignalingDomains)

	for _, sigdomain := range targets.Sorted() {
		if dns.IsSubDomain(child, sigdomain) {
			if g.Verbose {
				g.Logger.Printf("Skipping in-bailiwick bootstrapping for %s (via %s)", child, sigdomain)
			}
			continue
		}

		sz, err := g.SignalingZone(sigdomain)
		if err != nil {
			return err
		}

		owner := SignalingName(child, sz.ZoneName)
		sz.DeleteOwner(owner)
		sz.Dirty = true
		for rrtype, sd := range signals {
			if err := sz.ReplaceRRset(owner, rrtype, sd.TTL, sd.RRs); err != nil {
				return err
			}
		}
		if g.Debug {
			g.Logger.Printf("Insert: %s: %d rrtypes at %s", sz.ZoneName, len(signals), owner)
		}
	}
	return nil
}

// SignalingName returns the owner name _dsboot.{child}.{signaling domain}.
func SignalingName(child, sigdomain string) string {
	child = dns.Fqdn(child)
	if child == "." {
		return DsbootLabel + "." + dns.Fqdn(sigdomain)
	}
	return DsbootLabel + "." + child + dns.Fqdn(sigdomain)
}

// SignalingZone returns the signaling zone for domain, reading it from disk
// or creating it on first use.
func (g *Generator) SignalingZone(domain string) (*SignalingZone, error) {
	return g.Zones.GetOrCreate(domain, func() (*SignalingZone, error) {
		if g.ReadFiles {
			sz, err := ReadSignalingZoneFile(g.ZoneDir, domain)
			if err != nil {
				return nil, err
			}
			if sz != nil {
				if g.Verbose {
					g.Logger.Printf("SignalingZone: %s read from %s", sz.ZoneName, sz.Zonefile)
				}
				return sz, nil
			}
		}
		if g.Verbose {
			g.Logger.Printf("SignalingZone: creating new zone %s", dns.Fqdn(domain))
		}
		return NewPrimedSignalingZone(domain)
	})
}

// Write outputs every signaling zone touched in this run, either as text to w
// or, if persist is true, to the zone files in the zone directory.
func (g *Generator) Write(persist bool, w io.Writer) error {
	for _, sz := range g.Zones.Zones() {
		if persist {
			fname, err := sz.WriteFile(g.ZoneDir)
			if err != nil {
				return err
			}
			if g.Verbose {
				g.Logger.Printf("Write: zone %s written to %s", sz.ZoneName, fname)
			}
			continue
		}

		text, err := sz.ZoneText()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}
	return nil
}
