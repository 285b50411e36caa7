/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import "errors"

// Policy violations. All of these abort the run.
var (
	ErrRootSignal     = errors.New("CDS/CDNSKEY records for the root are illegal")
	ErrOriginMismatch = errors.New("unexpected zone origin in signaling zone file")
	ErrUnsafeFilename = errors.New("refusing to use non-hostname nameserver in filename")
)
