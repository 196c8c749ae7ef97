package injuries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportFixture = `<html><body>
<div class="Table__league">
	<table>
		<tbody>
			<tr><td>Jayson Tatum</td><td>SF</td><td>Mar 14</td><td>Out</td><td>Ankle sprain</td></tr>
			<tr><td>Jaylen Brown</td><td>SG</td><td>Mar 14</td><td>Day-To-Day</td><td>Knee soreness</td></tr>
		</tbody>
	</table>
	<table>
		<tbody>
			<tr><td>Nikola Jokic</td><td>C</td><td>Mar 14</td><td>out</td><td>Rest</td></tr>
			<tr><td></td><td></td><td></td><td></td><td></td></tr>
			<tr><td>Short Row</td></tr>
		</tbody>
	</table>
</div>
</body></html>`

func TestParseReport(t *testing.T) {
	report, err := ParseReport(reportFixture)
	require.NoError(t, err)

	assert.Len(t, report.Statuses, 3)
	assert.Equal(t, "Out", report.Statuses["Jayson Tatum"])
	assert.Equal(t, "Day-To-Day", report.Statuses["Jaylen Brown"])

	out := report.Out()
	assert.True(t, out["Jayson Tatum"])
	assert.True(t, out["Nikola Jokic"], "status matching is case-insensitive")
	assert.False(t, out["Jaylen Brown"], "day-to-day players stay eligible")
}

func TestParseReportEmptyPage(t *testing.T) {
	_, err := ParseReport("<html><body></body></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no injury rows")
}
