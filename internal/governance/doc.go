// Package governance implements the read side of the govern zone:
// lineage chain reconstruction, the browsable metadata catalog, and
// quality report aggregation.
//
// Every operation is a fresh full scan of the metadata bucket; no
// component caches state between calls. A walk performed concurrently
// with a new write may miss the newest record, which is accepted.
package governance
