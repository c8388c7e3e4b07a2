// Package resolve applies remediation actions to repositories.
//
// [Resolver.Apply] handles one (repository, action) pair:
//
//  1. open the repository; failure yields a "repository unavailable" result
//  2. in dry-run mode, return a success describing what would run
//  3. dispatch on the action variant to the git backend
//
// Every call yields exactly one [action.Result]. Backend errors and panics
// become failure results and never escape.
//
// The resolver does not ask for confirmation. Callers gate destructive
// actions with [action.IsDestructive] before calling it.
//
// [Resolver.ApplyAll] and [Resolver.ApplyEach] run many pairs on a bounded
// worker pool. One repository failing never affects the others.
package resolve
