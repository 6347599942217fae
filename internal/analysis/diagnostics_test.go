package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkspect/internal/syntax"
)

func diagnose(source string) []Diagnostic {
	return Diagnostics(syntax.Parse(source))
}

func TestValidContractHasNoDiagnostics(t *testing.T) {
	source := `#[ink::contract]
mod flipper {
    #[ink(storage)]
    pub struct Flipper {
        value: bool,
    }

    #[ink(event)]
    pub struct Flipped {
        #[ink(topic)]
        by: u8,
    }

    impl Flipper {
        #[ink(constructor)]
        pub fn new(init: bool) -> Self {
            Self { value: init }
        }

        #[ink(message, payable, selector = 1)]
        pub fn flip(&mut self) {
            self.value = !self.value;
        }
    }
}`
	assert.Empty(t, diagnose(source))
}

func TestUnknownMacroDiagnostic(t *testing.T) {
	diags := diagnose("#[ink::xyz]\nfn f() {}")
	require.Len(t, diags, 1)
	assert.Equal(t, "Unknown ink! attribute.", diags[0].Message)
	assert.Equal(t, Error, diags[0].Severity)
	require.Len(t, diags[0].Quickfixes, 1)

	applied := applyEdits("#[ink::xyz]\nfn f() {}", diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "fn f() {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestUnknownArgumentDiagnostic(t *testing.T) {
	source := "#[ink(message, xyz)]\nfn m(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "Unknown ink! attribute argument.", diags[0].Message)
	require.Len(t, diags[0].Quickfixes, 1)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&self) {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestMultipleMacrosDiagnostic(t *testing.T) {
	source := "#[ink::test]\n#[ink_e2e::test]\nfn t() {}"
	diags := diagnose(source)

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, messages, "An item can only have one ink! attribute macro.")
}

func TestValueKindMismatchDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{
			"selector string",
			`#[ink(message, selector = "nope")]` + "\nfn m(&self) {}",
			"ink! selector expects a u32 value or _.",
		},
		{
			"extension missing value",
			"#[ink(extension)]\nfn e();",
			"ink! extension expects a u32 value.",
		},
		{
			"namespace invalid identifier",
			`#[ink(impl, namespace = "my-ns")]` + "\nimpl C {}",
			"ink! namespace expects an identifier string value.",
		},
		{
			"message with value",
			"#[ink(message = true)]\nfn m(&self) {}",
			"ink! message expects no value.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := diagnose(tt.source)
			var messages []string
			for _, d := range diags {
				messages = append(messages, d.Message)
			}
			assert.Contains(t, messages, tt.message)
		})
	}
}

func TestMacroOnWrongItemDiagnostic(t *testing.T) {
	diags := diagnose("#[ink::contract]\nfn f() {}")
	require.Len(t, diags, 1)
	assert.Equal(t, "`#[ink::contract]` can only be applied to a `mod` item.", diags[0].Message)
}

func TestMessageReceiverDiagnosticAndFixes(t *testing.T) {
	source := "#[ink(message)]\nfn m() {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must have a `&self` or `&mut self` receiver.", diags[0].Message)
	require.Len(t, diags[0].Quickfixes, 2)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&self) {}", applied)
	assert.Empty(t, diagnose(applied))

	applied = applyEdits(source, diags[0].Quickfixes[1].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&mut self) {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestMessageReceiverFixKeepsExistingParams(t *testing.T) {
	source := "#[ink(message)]\nfn m(key: u32) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&self, key: u32) {}", applied)
}

func TestMessageSelfReturnDiagnostic(t *testing.T) {
	source := "#[ink(message)]\nfn m(&self) -> Self {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must not return `Self`.", diags[0].Message)
	require.Len(t, diags[0].Quickfixes, 1)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&self) {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestGenericMessageDiagnostic(t *testing.T) {
	source := "#[ink(message)]\nfn my_message<T>(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must not be generic.", diags[0].Message)
	require.Len(t, diags[0].Quickfixes, 1)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn my_message(&self) {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestMessageQualifierDiagnostics(t *testing.T) {
	source := "#[ink(message)]\nconst async unsafe fn m(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 3)

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
		require.Len(t, d.Quickfixes, 1)
	}
	assert.Equal(t, []string{
		"ink! messages must not be `const`.",
		"ink! messages must not be `async`.",
		"ink! messages must not be `unsafe`.",
	}, messages)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nasync unsafe fn m(&self) {}", applied)
}

func TestMessageAbiDiagnostic(t *testing.T) {
	source := "#[ink(message)]\nextern \"C\" fn m(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must not have an explicit ABI.", diags[0].Message)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\nfn m(&self) {}", applied)
}

func TestMessageVisibilityDiagnostic(t *testing.T) {
	source := "#[ink(message)]\npub(crate) fn m(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must have `pub` or inherited visibility.", diags[0].Message)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(message)]\npub fn m(&self) {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestConstructorDiagnostics(t *testing.T) {
	source := "#[ink(constructor)]\npub fn new(&self) {}"
	diags := diagnose(source)
	require.Len(t, diags, 2)

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, messages, "ink! constructors must not have a self receiver.")
	assert.Contains(t, messages, "ink! constructors must have a return type.")
}

func TestConstructorReturnTypeFix(t *testing.T) {
	source := "#[ink(constructor)]\npub fn new() {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)

	applied := applyEdits(source, diags[0].Quickfixes[0].Edits)
	assert.Equal(t, "#[ink(constructor)]\npub fn new() -> Self {}", applied)
	assert.Empty(t, diagnose(applied))
}

func TestTestFnRejectsInkDescendants(t *testing.T) {
	source := `#[ink::test]
fn my_test() {
    #[ink(event)]
    struct MyEvent {}
}`
	diags := diagnose(source)

	var descendant *Diagnostic
	for i := range diags {
		if strings.Contains(diags[i].Message, "not allowed inside") {
			descendant = &diags[i]
		}
	}
	require.NotNil(t, descendant)
	assert.Equal(t, "ink! attributes are not allowed inside an ink! test.", descendant.Message)
	require.Len(t, descendant.Quickfixes, 2)
	assert.Equal(t, "Remove ink! attribute", descendant.Quickfixes[0].Label)
	assert.Equal(t, "Remove item", descendant.Quickfixes[1].Label)

	applied := applyEdits(source, descendant.Quickfixes[0].Edits)
	assert.Empty(t, diagnose(applied))
}

func TestVariadicMessageDiagnostic(t *testing.T) {
	source := "#[ink(message)]\nfn m(&self, args: ...) {}"
	diags := diagnose(source)
	require.Len(t, diags, 1)
	assert.Equal(t, "ink! messages must not be variadic.", diags[0].Message)
	require.Len(t, diags[0].Quickfixes, 1)
}
