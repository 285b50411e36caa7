/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"fmt"
	"strings"

	"github.com/ryanuber/columnize"
)

// Summary returns a table with one line per signaling zone in the store.
func (zs *ZoneStore) Summary(zonedir string) string {
	out := []string{"Signaling zone|File|RRs|Children"}
	for _, sz := range zs.Zones() {
		fname, err := SignalingZonePath(zonedir, sz.ZoneName)
		if err != nil {
			fname = "(unsafe name)"
		}
		children := sz.Children()
		childlist := "-"
		if len(children) > 0 {
			childlist = strings.Join(children, ", ")
		}
		out = append(out, fmt.Sprintf("%s|%s|%d|%s", sz.ZoneName, fname, sz.RRCount(), childlist))
	}
	return columnize.SimpleFormat(out)
}
