package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key thresholds.

func describeAssess() string {
	return `Scores the deployment risk of a repository's HEAD change-set on a 0-100 scale.

USE WHEN:
- Deciding whether a change is safe to deploy right now
- Gating a CI/CD pipeline on deployment risk
- Reviewing the blast radius of the most recent commit
- Explaining to a reviewer why a change needs extra scrutiny

INTERPRETING RESULTS:
- Score 75-100 (critical): do not deploy, split into smaller changes
- Score 50-74 (high): deploy with careful monitoring and a rollback plan
- Score 25-49 (medium): standard deployment process applies
- Score 0-24 (low): safe to deploy
- Each factor lists the observed value, its threshold, and its score contribution
- A critical-path factor means the change touches configured high-impact prefixes
- A deletion-ratio factor appears only when deletions dominate the change

METRICS RETURNED:
- Overall score, risk level, recommendation, required approval
- Per-factor breakdown: files changed, lines changed, critical paths, deletion ratio
- Raw change metrics: files, additions, deletions, changed paths
- Fingerprint uniquely identifying the assessed change-set`
}

func describeHistory() string {
	return `Scores every commit in a window of git history and summarizes the risk trend.

USE WHEN:
- Auditing how risky a team's recent changes have been
- Spotting a rising-risk trend before it causes an incident
- Finding the specific commits that would have been flagged critical
- Comparing risk posture across repositories or time periods

INTERPRETING RESULTS:
- Commits are listed chronologically with per-commit scores and levels
- With top set, only the N riskiest commits are returned, highest first
- Summary counts commits by risk level (critical, high, medium, low)
- Trend slope > 0: risk is increasing over the period, investigate
- Trend slope < 0: risk is decreasing, recent changes are getting smaller
- R-squared near 1.0 means the trend line fits the data well
- Merge commits and the initial commit are excluded

METRICS RETURNED:
- Per-commit: hash, author, message, timestamp, score, level, factors
- Summary: counts by level, average and maximum score
- Trend: slope, intercept, R-squared, correlation over the period`
}
