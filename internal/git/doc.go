// Package git provides repository queries and mutations via the git CLI.
//
// All operations shell out to git rather than using a Go git library, so
// user configuration (credential helpers, hooksPath, aliases) keeps
// working exactly as on the command line.
//
// The engines in status and resolve depend on the [Opener] and
// [Repository] interfaces; [CLI] is the production implementation.
//
// # Queries
//
//   - [Repository.Head]: named branch, detached HEAD or unborn branch
//   - [Repository.Status]: porcelain working tree and index entries
//   - [Repository.Divergence]: commits ahead/behind the upstream
//   - [Repository.StashCount], [Repository.LastCommit], [Repository.HookPresent]
//
// # Mutations
//
//   - [Repository.StageAll], [Repository.Commit]
//   - [Repository.StashSave], [Repository.StashPop]
//   - [Repository.FetchFastForward]: fetch, then fast-forward only
//   - [Repository.CreateBranch], [Repository.HardResetAndClean]
package git
