/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/miekg/dns"
)

var zonefileRe = regexp.MustCompile(`^_signal\.([A-Za-z0-9-]+\.)+zone$`)

// SignalingZoneFilename returns the file name used for the signaling domain,
// "_signal.ns1.example.net." becomes "_signal.ns1.example.net.zone". Names
// that would not be plain hostnames are refused.
func SignalingZoneFilename(domain string) (string, error) {
	domain = dns.Fqdn(domain)
	filename := domain + ZoneFileSuffix
	if !zonefileRe.MatchString(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeFilename, ParentName(domain))
	}
	return filename, nil
}

func SignalingZonePath(dir, domain string) (string, error) {
	filename, err := SignalingZoneFilename(domain)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filename), nil
}

// ReadSignalingZoneFile loads the signaling zone for domain from dir. A missing
// file is not an error; nil is returned and the caller creates a new zone.
func ReadSignalingZoneFile(dir, domain string) (*SignalingZone, error) {
	domain = dns.Fqdn(domain)
	filename, err := SignalingZonePath(dir, domain)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ReadSignalingZoneFile: failed to read %s: %v", filename, err)
	}

	origin := declaredOrigin(data)
	if origin != "" && !strings.EqualFold(origin, domain) {
		return nil, fmt.Errorf("%w %s: %s", ErrOriginMismatch, filename, origin)
	}

	sz := NewSignalingZone(domain)
	sz.Zonefile = filename

	zp := dns.NewZoneParser(bytes.NewReader(data), origin, filename)
	zp.SetIncludeAllowed(false)

	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		if origin == "" {
			// No $ORIGIN; the first owner is taken to be the apex.
			origin = rr.Header().Name
			if !strings.EqualFold(origin, domain) {
				return nil, fmt.Errorf("%w %s: %s", ErrOriginMismatch, filename, origin)
			}
		}
		if err := sz.AddRR(rr); err != nil {
			return nil, fmt.Errorf("ReadSignalingZoneFile: %s: %v", filename, err)
		}
	}

	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("ReadSignalingZoneFile: Error from ZoneParser(%s): %v", filename, err)
	}
	return sz, nil
}

// declaredOrigin returns the first $ORIGIN of a zone file, provided it comes
// before any RR. Otherwise "".
func declaredOrigin(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "$ORIGIN":
			if len(fields) < 2 {
				return ""
			}
			return dns.Fqdn(fields[1])
		case "$TTL":
			continue
		}
		return ""
	}
	return ""
}

// WriteZoneToFile writes the zone in presentation format, starting with
// $ORIGIN and with owner names relative to it.
func (sz *SignalingZone) WriteZoneToFile(w io.Writer) error {
	writer := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(writer, "$ORIGIN %s\n", sz.ZoneName); err != nil {
		return err
	}
	for _, od := range sz.SortedOwners() {
		for _, rrt := range od.RRtypes.SortedKeys() {
			rrset := od.RRtypes.GetOnlyRRSet(rrt)
			for _, rr := range rrset.RRs {
				if _, err := fmt.Fprintln(writer, RRToZoneLine(rr, sz.ZoneName)); err != nil {
					return err
				}
			}
			for _, rr := range rrset.RRSIGs {
				if _, err := fmt.Fprintln(writer, RRToZoneLine(rr, sz.ZoneName)); err != nil {
					return err
				}
			}
		}
	}
	return writer.Flush()
}

func (sz *SignalingZone) ZoneText() (string, error) {
	var buf bytes.Buffer
	if err := sz.WriteZoneToFile(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile writes the zone to its file in dir. The data goes to a temporary
// file first, which is then renamed into place.
func (sz *SignalingZone) WriteFile(dir string) (string, error) {
	fname, err := SignalingZonePath(dir, sz.ZoneName)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(filepath.Dir(fname), filepath.Base(fname)+".*.tmp")
	if err != nil {
		return fname, fmt.Errorf("WriteFile: %v", err)
	}
	tmpname := f.Name()

	err = sz.WriteZoneToFile(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpname, 0644)
	}
	if err == nil {
		err = os.Rename(tmpname, fname)
	}
	if err != nil {
		os.Remove(tmpname)
		return fname, fmt.Errorf("WriteFile: %s: %v", fname, err)
	}
	sz.Zonefile = fname
	sz.Dirty = false
	return fname, nil
}
