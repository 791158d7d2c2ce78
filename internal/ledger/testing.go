package ledger

// SeedEntries is a test helper that loads entries directly into the
// in-memory ledger without going through Append.
func SeedEntries(w Writer, entries ...Entry) {
	if mem, ok := w.(*inMemoryWriter); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		for _, entry := range entries {
			mem.entries[entry.WalletID] = append(mem.entries[entry.WalletID], entry)
		}
	}
}
