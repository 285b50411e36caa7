/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

const (
	DefaultCfgFile = "/etc/dsboot/dsboot.yaml"

	// Labels from draft-ietf-dnsop-dnssec-bootstrapping
	SignalLabel = "_signal"
	DsbootLabel = "_dsboot"

	// TTL of the apex NS RR in a newly created signaling zone
	SignalingNsTTL = 3600

	ZoneFileSuffix = "zone"
)
