package jobs

// Grade is the letter rating the digest assigns to a mean sentiment score.
type Grade struct {
	Letter      string
	Emoji       string
	Description string
}

// gradeTable maps score floors to grades, best first. The floors intentionally
// sit well inside [-1,1]: lexicon means over mixed sources rarely leave
// [-0.6, 0.6], so ±0.5 already marks an extreme day.
var gradeTable = []struct {
	floor float64
	grade Grade
}{
	{0.5, Grade{"A+", "🚀", "Extremely bullish"}},
	{0.3, Grade{"A", "🔥", "Very bullish"}},
	{0.15, Grade{"B+", "📈", "Bullish"}},
	{0.05, Grade{"B", "🙂", "Mildly bullish"}},
	{-0.05, Grade{"C", "😐", "Neutral"}},
	{-0.15, Grade{"D+", "📉", "Mildly bearish"}},
	{-0.3, Grade{"D", "⚠️", "Bearish"}},
}

// gradeF is the floor of the table.
var gradeF = Grade{"F", "💀", "Very bearish"}

// GradeFor maps a mean sentiment score to its letter grade.
func GradeFor(score float64) Grade {
	for _, entry := range gradeTable {
		if score >= entry.floor {
			return entry.grade
		}
	}
	return gradeF
}
