package analysis

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkspect/internal/syntax"
)

// applyEdits applies descriptive edits to the original text in one
// pass, mirroring what an editor client does.
func applyEdits(source string, edits []TextEdit) string {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start > sorted[j].Range.Start
	})
	for _, e := range sorted {
		source = source[:e.Range.Start] + e.Text + source[e.Range.End:]
	}
	return source
}

func actionsAt(source string, offset int) []Action {
	return Actions(syntax.Parse(source), syntax.EmptyRange(offset))
}

func TestEmptyFileRootActions(t *testing.T) {
	actions := actionsAt("", 0)
	require.Len(t, actions, 4)

	wantLabels := []string{
		"Add ink! contract",
		"Add ink! trait definition",
		"Add ink! chain extension",
		"Add ink! storage item",
	}
	wantTexts := []string{
		"#[ink::contract]",
		"#[ink::trait_definition]",
		"#[ink::chain_extension]",
		"#[ink::storage_item]",
	}
	for i, action := range actions {
		assert.Equal(t, wantLabels[i], action.Label)
		require.Len(t, action.Edits, 1)
		assert.Equal(t, wantTexts[i], action.Edits[0].Text)
		assert.Equal(t, syntax.EmptyRange(0), action.Edits[0].Range)
	}
}

func TestRootActionsSkipContractWhenOneExists(t *testing.T) {
	source := "#[ink::contract]\nmod my_contract {}\n"
	actions := actionsAt(source, len(source))
	require.Len(t, actions, 3)
	for _, action := range actions {
		assert.NotEqual(t, "Add ink! contract", action.Label)
	}
}

func TestModuleGetsContractMacroAction(t *testing.T) {
	source := "mod my_contract {}"
	actions := actionsAt(source, 1)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, "Add ink! contract attribute macro", action.Label)
	require.Len(t, action.Edits, 1)
	assert.Equal(t, 0, action.Edits[0].Range.Start)
	assert.True(t, strings.HasPrefix(action.Edits[0].Text, "#[ink::contract]"))

	applied := applyEdits(source, action.Edits)
	assert.Equal(t, "#[ink::contract]\nmod my_contract {}", applied)
}

func TestEventFieldGetsTopicAction(t *testing.T) {
	source := "#[ink(event)]\nstruct MyEvent {\n    my_field: u8,\n}"
	offset := strings.Index(source, "my_field") + 2
	actions := actionsAt(source, offset)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, "Add ink! topic attribute argument", action.Label)
	applied := applyEdits(source, action.Edits)
	assert.Contains(t, applied, "#[ink(topic)]\n    my_field: u8,")
}

func TestAnnotatedEventStructOffersAnonymousSibling(t *testing.T) {
	source := "#[ink(event)]\nstruct MyEvent {}"
	actions := actionsAt(source, strings.Index(source, "struct"))

	var labels []string
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	require.Contains(t, labels, "Add ink! anonymous attribute argument")

	for _, a := range actions {
		if a.Label != "Add ink! anonymous attribute argument" {
			continue
		}
		applied := applyEdits(source, a.Edits)
		assert.Equal(t, "#[ink(event, anonymous)]\nstruct MyEvent {}", applied)
	}
}

func TestContractModuleEntityActions(t *testing.T) {
	source := "#[ink::contract]\nmod my_contract {}"
	actions := actionsAt(source, strings.Index(source, "mod"))

	var labels []string
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{
		"Add ink! env attribute argument",
		"Add ink! keep_attr attribute argument",
		"Add ink! storage struct",
		"Add ink! event struct",
		"Add ink! constructor fn",
		"Add ink! message fn",
	}, labels)
}

func TestContractWithStorageSkipsStorageStub(t *testing.T) {
	source := `#[ink::contract]
mod my_contract {
    #[ink(storage)]
    pub struct MyContract {}
}`
	actions := actionsAt(source, strings.Index(source, "mod"))
	for _, a := range actions {
		assert.NotEqual(t, "Add ink! storage struct", a.Label)
	}
}

func TestFlattenAction(t *testing.T) {
	source := `#[ink::contract(env=crate::Environment)]
#[ink(keep_attr="foo,bar")]
mod my_contract {}`
	actions := actionsAt(source, strings.Index(source, "mod"))

	var flattenAction *Action
	entityAdds := 0
	for i := range actions {
		switch {
		case actions[i].Label == "Flatten ink! attributes":
			flattenAction = &actions[i]
		case strings.HasPrefix(actions[i].Label, "Add ink!"):
			entityAdds++
		}
	}
	require.NotNil(t, flattenAction)
	assert.Equal(t, 4, entityAdds)

	applied := applyEdits(source, flattenAction.Edits)
	assert.Equal(t,
		`#[ink::contract(env = crate::Environment, keep_attr = "foo,bar")]
mod my_contract {}`, applied)
}

func TestFlattenSortsEntityArgumentFirst(t *testing.T) {
	source := `#[ink(payable)]
#[ink(message)]
#[ink(selector = 1)]
fn my_message(&self) {}`
	actions := actionsAt(source, strings.Index(source, "fn"))

	var flattenAction *Action
	for i := range actions {
		if actions[i].Label == "Flatten ink! attributes" {
			flattenAction = &actions[i]
		}
	}
	require.NotNil(t, flattenAction)

	applied := applyEdits(source, flattenAction.Edits)
	assert.Equal(t, "#[ink(message, payable, selector = 1)]\nfn my_message(&self) {}", applied)
}

func TestFlattenRewritesPrimaryInPlace(t *testing.T) {
	source := `#[ink(payable)]
#[ink(message)]
#[ink(selector = 1)]
fn my_message(&self) {}`
	actions := actionsAt(source, strings.Index(source, "fn"))

	var flattenAction *Action
	for i := range actions {
		if actions[i].Label == "Flatten ink! attributes" {
			flattenAction = &actions[i]
		}
	}
	require.NotNil(t, flattenAction)
	require.Len(t, flattenAction.Edits, 3)

	// One edit replaces the primary attribute in place; the primary's
	// own arguments must not be picked up a second time there.
	var rewrites []TextEdit
	for _, e := range flattenAction.Edits {
		if e.Text != "" {
			rewrites = append(rewrites, e)
		}
	}
	require.Len(t, rewrites, 1)
	primaryStart := strings.Index(source, "#[ink(message)]")
	assert.Equal(t, syntax.NewRange(primaryStart, primaryStart+len("#[ink(message)]")), rewrites[0].Range)
	assert.Equal(t, 1, strings.Count(rewrites[0].Text, "message"))

	// The remaining deletions must not touch the replaced range.
	sorted := make([]TextEdit, len(flattenAction.Edits))
	copy(sorted, flattenAction.Edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})
	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i].Range.Start, sorted[i-1].Range.End)
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	source := `#[ink::contract(env=crate::Environment)]
#[ink(keep_attr="foo,bar")]
mod my_contract {}`
	actions := actionsAt(source, strings.Index(source, "mod"))

	var flattenAction *Action
	for i := range actions {
		if actions[i].Label == "Flatten ink! attributes" {
			flattenAction = &actions[i]
		}
	}
	require.NotNil(t, flattenAction)

	applied := applyEdits(source, flattenAction.Edits)
	again := actionsAt(applied, strings.Index(applied, "mod"))
	for _, a := range again {
		assert.NotEqual(t, "Flatten ink! attributes", a.Label)
	}
}

func TestFocusInsideAttributeSuppressesItemActions(t *testing.T) {
	source := "#[ink::contract]\nmod my_contract {}"
	offset := strings.Index(source, "contract") + 3
	assert.Empty(t, actionsAt(source, offset))
}

func TestOutOfRangeOffsetYieldsRootActions(t *testing.T) {
	actions := actionsAt("", 9999)
	assert.Len(t, actions, 4)
}

func TestTestModuleOffersTestFn(t *testing.T) {
	source := "#[cfg(test)]\nmod tests {}"
	actions := actionsAt(source, strings.Index(source, "mod"))

	var labels []string
	for _, a := range actions {
		labels = append(labels, a.Label)
	}
	assert.Contains(t, labels, "Add ink! test fn")
}
