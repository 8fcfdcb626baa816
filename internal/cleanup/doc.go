// Package cleanup relocates pictures that no document references into a
// quarantine tree and prunes the directories they leave behind.
//
// Every filesystem mutation goes through a Strategy. The Planner only logs
// what would happen; the Executor performs it. Both share the traversal and
// counting code in Relocate and Prune, so a dry run reports exactly the totals
// a real run produces on the same tree.
package cleanup
