// Test library files shared by the handler tests. Paths are relative
// to the test library root.
package handlers

var testLibraryFiles = map[string]string{
	"Theory/topicality.md": `# Limits

Limits are good for clash and fairness.
`,
	"Theory/Conditionality/condo.md": `# Condo Bad

Conditionality destroys depth.
`,
	"Disads/economy.md": `# Economy

Overview of the economy disad.

## Inflation

Inflation wrecks fairness and purchasing power.
`,
	"notes.md": `# Scratch

Random scratch notes.
`,
}

// Block entries the library above should produce: one per heading.
const expectedEntryCount = 5
