package ledger

import (
	"fmt"
	"sort"
	"time"
)

// Fingerprint derives a content key that survives an external provider
// reissuing transaction ids: accountId|postedAt|amountCents. After a
// provider reconnect the same real-world transaction arrives under a fresh
// id but an identical fingerprint.
func (t Transaction) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%d", t.AccountID, t.PostedAt.UTC().Format(time.RFC3339Nano), t.Amount.Cents())
}

// Merge deduplicates an incoming transaction batch against the existing
// list and returns the combined result sorted by postedAt descending
// (newest first, ties keep insertion order).
//
// Dedup rules, in order:
//  1. An incoming id already present in existing is dropped.
//  2. An import-sourced incoming transaction whose fingerprint matches any
//     existing transaction is dropped, even though its id differs.
//  3. Manual transactions never fingerprint-dedup: two genuinely separate
//     manual entries with coincidentally equal fields both survive.
//
// Idempotent: merging the same batch N times equals merging it once.
func Merge(existing, incoming []Transaction) []Transaction {
	existingIDs := make(map[string]struct{}, len(existing))
	existingFingerprints := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		existingIDs[t.ID] = struct{}{}
		existingFingerprints[t.Fingerprint()] = struct{}{}
	}

	merged := append([]Transaction(nil), existing...)
	for _, t := range incoming {
		if _, ok := existingIDs[t.ID]; ok {
			continue
		}
		if t.IsImported() {
			if _, ok := existingFingerprints[t.Fingerprint()]; ok {
				continue
			}
		}
		merged = append(merged, t)
		existingIDs[t.ID] = struct{}{}
		existingFingerprints[t.Fingerprint()] = struct{}{}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PostedAt.After(merged[j].PostedAt)
	})
	return merged
}
