/*
Package operation drives a rule set over a directory tree.

	+-------------+
	|   Walker    |
	| (discovery) |
	+------+------+
	       |
	+------+------+
	|  Rewrite    |
	| (per file)  |
	+------+------+
	       |
	+------+------+
	|   Status    |
	| (write/log) |
	+-------------+

🎯 Purpose:
- Finds files under the root with doublestar include/ignore globs and .gitignore
- Runs text.Rewriter over each file on a bounded errgroup pool
- Writes changed files atomically, or prints unified diffs in dry-run mode
- Records one status.FileInfo per file

A file that cannot be read or written is marked failed; the rest of the run
carries on. Only walking errors and cancellation end a run early.

🔍 Example:

	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		RuleSet:   set,
		StatusMgr: status.New(cfg.Root, zerolog.Ctx(ctx)),
		Logger:    log.FromContext(ctx),
	})
	if err != nil {
		return err
	}

	err = operation.NewRunner(zerolog.Ctx(ctx), false).Run(ctx, op)
*/
package operation
