package notifier

import (
	"fmt"
	"strings"
	"time"

	"LeverageScope/internal/model"
)

// FormatFrameSummary formats the frame on display for a chat message.
func FormatFrameSummary(f *model.Frame) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>LeverageScope</b> | LR(0) = %.2f\n\n", f.LR0))
	b.WriteString(fmt.Sprintf("t: [%.4f, %.4f] (%d samples)\n", f.XLim.Min, f.XLim.Max, len(f.T)))
	b.WriteString(fmt.Sprintf("y: [%.2f, %.2f]\n\n", f.YLim.Min, f.YLim.Max))

	b.WriteString("<b>At t max:</b>\n")
	b.WriteString(fmt.Sprintf("  LR_call: %.2f\n", f.Last(model.CurveCall)))
	b.WriteString(fmt.Sprintf("  LR_short: %.2f\n", f.Last(model.CurveShort)))
	b.WriteString(fmt.Sprintf("  LR_short/LR_call: %.4f\n", f.Last(model.CurveRatio)))

	b.WriteString(fmt.Sprintf("\nsource: %s (%s)", f.Source, f.State))
	return b.String()
}

// FormatSnapshot formats the scheduled snapshot report.
func FormatSnapshot(f *model.Frame, updates int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕒 <b>Snapshot</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("updates so far: %d\n\n", updates))
	b.WriteString(FormatFrameSummary(f))
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp(minLR0, maxLR0 float64) string {
	return fmt.Sprintf("Commands:\n"+
		"• /lr &lt;value&gt; set LR(0), range [%.2f, %.2f]\n"+
		"• /status current curves\n"+
		"• /chart current chart", minLR0, maxLR0)
}
