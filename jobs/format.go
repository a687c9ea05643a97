package jobs

import (
	"fmt"
	"strings"
)

const dashboardLink = "cryptovibes.streamlit.app"

// formatTopPost renders the top-5 summary post.
func formatTopPost(results []*coinResult) string {
	var b strings.Builder
	b.WriteString("🔮 Daily Crypto Sentiment\n\n")

	var totalItems int
	for _, r := range results {
		if r.Failed {
			continue
		}

		priceStr := ""
		if r.PriceChange24h != 0 {
			priceStr = fmt.Sprintf(" (%+.1f%%)", r.PriceChange24h)
		}
		fmt.Fprintf(&b, "$%s: %s %s%s\n", r.Coin, r.Grade.Letter, r.Grade.Emoji, priceStr)

		totalItems += len(r.Dataset.Items)
	}

	fmt.Fprintf(&b, "\n📊 %d sources analyzed", totalItems)
	b.WriteString("\n🔗 " + dashboardLink)
	b.WriteString("\n\n#Crypto #Bitcoin #Sentiment")

	return b.String()
}

// formatDetailPost renders the special coin's detailed post. Empty when the
// coin's analysis failed.
func formatDetailPost(r *coinResult) string {
	if r.Failed {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🪙 $%s Daily Report\n\n", r.Coin)
	fmt.Fprintf(&b, "Grade: %s %s\n", r.Grade.Letter, r.Grade.Emoji)
	fmt.Fprintf(&b, "Sentiment: %s\n", r.Grade.Description)

	if r.PriceChange24h != 0 {
		fmt.Fprintf(&b, "24h: %+.1f%%\n", r.PriceChange24h)
	}

	b.WriteString("\n")

	mean := r.Dataset.MeanScore
	switch {
	case mean > 0.3:
		b.WriteString("🔥 Strong community momentum!\n")
	case mean > 0.1:
		b.WriteString("📈 Positive sentiment detected\n")
	case mean > -0.1:
		b.WriteString("😐 Mixed market signals\n")
	default:
		b.WriteString("⚠️ Bearish pressure noted\n")
	}

	fmt.Fprintf(&b, "\n📊 Based on %d sources", len(r.Dataset.Items))
	b.WriteString("\n🔗 " + dashboardLink)
	fmt.Fprintf(&b, "\n#%s", r.Coin)

	return b.String()
}
