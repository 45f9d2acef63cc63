/*
Package status owns file I/O and per-file bookkeeping for a fixrc run.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+-----+
	|   Files   |             |  Tracker  |
	| read/write|             | FileInfo  |
	|  backups  |             |  Summary  |
	+-----------+             +-----------+

🎯 Purpose:
- Reads files relative to the run root
- Writes rewritten files atomically, keeping their permissions
- Copies a file to <name>.bak before it is overwritten
- Tracks one FileInfo per visited file and reports progress

🔄 Flow:
1. The rewrite operation reads a file through the Manager
2. The rewriter produces new content
3. Changed content is backed up (optional) and written atomically
4. The outcome is recorded with TrackFile and totalled by Summary

Every Manager method is safe for concurrent use.

🔍 Example:

	mgr := status.New(root, zerolog.Ctx(ctx))

	content, err := mgr.ReadFile(ctx, "src/app.rs")
	...
	err = mgr.WriteFileAtomic(ctx, "src/app.rs", fixed)
	mgr.TrackFile(ctx, "src/app.rs", status.FileInfo{Status: status.StatusModified, Replacements: 3})

	sum := mgr.Summary(ctx)
*/
package status
