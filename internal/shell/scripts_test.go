package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `C:\Temp\setup.exe`, want: `'C:\Temp\setup.exe'`},
		{name: "single quote doubled", in: `C:\Users\O'Brien\app.exe`, want: `'C:\Users\O''Brien\app.exe'`},
		{name: "empty", in: "", want: "''"},
		{name: "dollar stays literal", in: "$env:TEMP", want: "'$env:TEMP'"},
		{name: "right single quotation mark doubled", in: "C:\\Users\\O\u2019Brien\\app.exe", want: "'C:\\Users\\O\u2019\u2019Brien\\app.exe'"},
		{
			name: "every typographic single quote doubled",
			in:   "a\u2018b\u2019c\u201ad\u201be",
			want: "'a\u2018\u2018b\u2019\u2019c\u201a\u201ad\u201b\u201be'",
		},
		{name: "injection stays inside the literal", in: "x\u2019; Remove-Item C:\\ #", want: "'x\u2019\u2019; Remove-Item C:\\ #'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestScriptGenerator_GenerateSilentUpdate_EXE(t *testing.T) {
	gen := NewScriptGenerator()
	output, err := gen.GenerateSilentUpdate(SilentUpdate{
		PID:            4242,
		PollMillis:     200,
		URL:            "https://example.com/UniCreate-Setup.exe",
		UserAgent:      "UniCreate-Updater/1.0",
		Installer:      `C:\Temp\unicreate-updater\UniCreate-Setup.exe`,
		RelaunchMillis: 500,
		App:            `C:\Program Files\UniCreate\unicreate.exe`,
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Get-Process -Id 4242")
	assert.Contains(t, output, "Start-Sleep -Milliseconds 200")
	assert.Contains(t, output, "-Uri 'https://example.com/UniCreate-Setup.exe'")
	assert.Contains(t, output, `$installer = 'C:\Temp\unicreate-updater\UniCreate-Setup.exe'`)
	assert.Contains(t, output, "-ArgumentList '/S'")
	assert.NotContains(t, output, "msiexec")
	assert.Contains(t, output, "Start-Sleep -Milliseconds 500")
	assert.Contains(t, output, `Start-Process -FilePath 'C:\Program Files\UniCreate\unicreate.exe'`)
}

func TestScriptGenerator_GenerateSilentUpdate_MSI(t *testing.T) {
	gen := NewScriptGenerator()
	output, err := gen.GenerateSilentUpdate(SilentUpdate{
		PID:       7,
		URL:       "https://example.com/it's.msi",
		Installer: `C:\Temp\it's.msi`,
		MSI:       true,
		App:       `C:\app.exe`,
	})
	require.NoError(t, err)

	assert.Contains(t, output, "'msiexec.exe'")
	assert.Contains(t, output, "'/qn', '/norestart'")
	assert.NotContains(t, output, "-ArgumentList '/S'")
	assert.Contains(t, output, "-Uri 'https://example.com/it''s.msi'")
	assert.Contains(t, output, `$installer = 'C:\Temp\it''s.msi'`)
}

func TestScriptGenerator_ExitsOnInstallerFailure(t *testing.T) {
	gen := NewScriptGenerator()
	output, err := gen.GenerateSilentUpdate(SilentUpdate{PID: 1, App: "a.exe"})
	require.NoError(t, err)

	assert.Contains(t, output, "$ErrorActionPreference = 'Stop'")
	assert.Contains(t, output, "if ($proc.ExitCode -ne 0)")
	assert.Contains(t, output, "exit $proc.ExitCode")
}
