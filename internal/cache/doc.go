// Package cache persists repository statuses between runs.
//
// Entries are keyed by repository path and carry a state fingerprint
// built from files git rewrites on every state change: HEAD, the index,
// the stash ref and FETCH_HEAD. An entry is reused only if its fingerprint
// still matches, it was computed with the same analysis options and it is
// younger than the configured maximum age.
//
// The fingerprint does not see unstaged edits to tracked files, which is
// why entries also expire by age.
//
// The cache file lives at <UserCacheDir>/nexus/status-cache.json. Use
// [LoadWithLock] for load-modify-save cycles so concurrent nexus
// processes do not lose each other's updates.
package cache
