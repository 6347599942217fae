package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkspect/internal/syntax"
)

func allAttrNodes(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range n.Children {
		if c.Kind == syntax.ATTR {
			out = append(out, c)
		}
		out = append(out, allAttrNodes(c)...)
	}
	return out
}

func castFirst(t *testing.T, source string) *Attribute {
	t.Helper()
	file := syntax.Parse(source)
	attrs := allAttrNodes(file.Root)
	require.NotEmpty(t, attrs)
	return Cast(attrs[0])
}

func TestCastClassification(t *testing.T) {
	tests := []struct {
		attr string
		kind AttributeKind
	}{
		{"#[ink::chain_extension]", MacroAttr(ChainExtension)},
		{"#[ink::contract]", MacroAttr(Contract)},
		{"#[ink::storage_item]", MacroAttr(StorageItem)},
		{"#[ink::test]", MacroAttr(Test)},
		{"#[ink::trait_definition]", MacroAttr(TraitDefinition)},
		{"#[ink_e2e::test]", MacroAttr(E2ETest)},
		{"#[ink::xyz]", MacroAttr(MacroUnknown)},
		{"#[ink::xyz::abc]", MacroAttr(MacroUnknown)},
		{"#[ink]", MacroAttr(MacroUnknown)},
		{"#[ink()]", ArgAttr(ArgUnknown)},
		{"#[ink(xyz)]", ArgAttr(ArgUnknown)},
		{"#[ink(additional_contracts = \"adder/Cargo.toml\")]", ArgAttr(AdditionalContracts)},
		{"#[ink(anonymous)]", ArgAttr(Anonymous)},
		{"#[ink(constructor)]", ArgAttr(Constructor)},
		{"#[ink(default)]", ArgAttr(Default)},
		{"#[ink(derive = false)]", ArgAttr(Derive)},
		{"#[ink(env = my::env::Types)]", ArgAttr(Env)},
		{"#[ink(environment = my::env::Types)]", ArgAttr(Environment)},
		{"#[ink(event)]", ArgAttr(Event)},
		{"#[ink(extension = 1)]", ArgAttr(Extension)},
		{"#[ink(handle_status = true)]", ArgAttr(HandleStatus)},
		{"#[ink(impl)]", ArgAttr(Impl)},
		{"#[ink(keep_attr = \"foo,bar\")]", ArgAttr(KeepAttr)},
		{"#[ink(message)]", ArgAttr(Message)},
		{"#[ink(namespace = \"my_namespace\")]", ArgAttr(Namespace)},
		{"#[ink(payable)]", ArgAttr(Payable)},
		{"#[ink(selector = 1)]", ArgAttr(Selector)},
		{"#[ink(selector = _)]", ArgAttr(Selector)},
		{"#[ink(storage)]", ArgAttr(Storage)},
		{"#[ink(topic)]", ArgAttr(Topic)},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			attr := castFirst(t, tt.attr+"\nstruct S;")
			require.NotNil(t, attr)
			assert.Equal(t, tt.kind, attr.Kind)
		})
	}
}

func TestAttributeKindString(t *testing.T) {
	tests := []struct {
		kind AttributeKind
		want string
	}{
		{MacroAttr(Contract), "macro ink::contract"},
		{MacroAttr(E2ETest), "macro ink_e2e::test"},
		{MacroAttr(MacroUnknown), "macro unknown"},
		{ArgAttr(Message), "arg message"},
		{ArgAttr(KeepAttr), "arg keep_attr"},
		{ArgAttr(ArgUnknown), "arg unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestCastIgnoresNonInkAttributes(t *testing.T) {
	for _, src := range []string{
		"#[cfg(test)]\nmod tests {}",
		"#[derive(Debug)]\nstruct S;",
		"#[inkling]\nstruct S;",
	} {
		assert.Nil(t, castFirst(t, src), src)
	}
}

func TestPrimaryKindIgnoresArgumentOrder(t *testing.T) {
	for _, src := range []string{
		"#[ink(selector = 1, payable, message)]",
		"#[ink(message, selector = 1, payable)]",
		"#[ink(payable, message, selector = 1)]",
	} {
		attr := castFirst(t, src+"\nfn m(&self) {}")
		require.NotNil(t, attr, src)
		assert.Equal(t, ArgAttr(Message), attr.Kind, src)
	}
}

func TestCastParsesAllArguments(t *testing.T) {
	attr := castFirst(t, "#[ink(message, payable, selector = 0xA)]\nfn m(&self) {}")
	require.NotNil(t, attr)
	require.Len(t, attr.Args, 3)

	assert.Equal(t, Message, attr.Args[0].Kind)
	assert.Equal(t, Payable, attr.Args[1].Kind)
	assert.Equal(t, Selector, attr.Args[2].Kind)

	sel := attr.ArgByKind(Selector)
	require.NotNil(t, sel)
	n, ok := sel.Value.AsU32()
	require.True(t, ok)
	assert.Equal(t, uint32(10), n)
}

func TestMacroAttributesCarryArguments(t *testing.T) {
	attr := castFirst(t, `#[ink::contract(env = crate::Environment, keep_attr = "foo,bar")]
mod my_contract {}`)
	require.NotNil(t, attr)
	assert.Equal(t, MacroAttr(Contract), attr.Kind)
	require.Len(t, attr.Args, 2)

	env := attr.ArgByKind(Env)
	require.NotNil(t, env)
	assert.Equal(t, MetaPath, env.Value.Kind)
	assert.Equal(t, "crate::Environment", env.Value.Text)

	keep := attr.ArgByKind(KeepAttr)
	require.NotNil(t, keep)
	s, ok := keep.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "foo,bar", s)
}

func TestValueMatching(t *testing.T) {
	tests := []struct {
		name  string
		attr  string
		arg   ArgKind
		valid bool
	}{
		{"selector int", "#[ink(selector = 1)]", Selector, true},
		{"selector hex", "#[ink(selector = 0xDEAD_BEEF)]", Selector, true},
		{"selector wildcard", "#[ink(selector = _)]", Selector, true},
		{"selector string", `#[ink(selector = "nope")]`, Selector, false},
		{"selector overflow", "#[ink(selector = 0x1_0000_0000)]", Selector, false},
		{"extension wildcard", "#[ink(extension = _)]", Extension, false},
		{"extension int", "#[ink(extension = 42)]", Extension, true},
		{"handle_status bool", "#[ink(handle_status = false)]", HandleStatus, true},
		{"handle_status int", "#[ink(handle_status = 1)]", HandleStatus, false},
		{"namespace ident", `#[ink(namespace = "my_ns")]`, Namespace, true},
		{"namespace invalid", `#[ink(namespace = "my-ns")]`, Namespace, false},
		{"keep_attr list", `#[ink(keep_attr = "foo,bar")]`, KeepAttr, true},
		{"keep_attr empty entry", `#[ink(keep_attr = "foo,,bar")]`, KeepAttr, false},
		{"env path", "#[ink(env = my::env::Types)]", Env, true},
		{"env int", "#[ink(env = 1)]", Env, false},
		{"message none", "#[ink(message)]", Message, true},
		{"message with value", "#[ink(message = true)]", Message, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := castFirst(t, tt.attr+"\nfn f(&self) {}")
			require.NotNil(t, attr)
			arg := attr.ArgByKind(tt.arg)
			require.NotNil(t, arg)
			assert.Equal(t, tt.valid, arg.Value.Matches(tt.arg.ExpectedValue()))
		})
	}
}

func TestResolveScope(t *testing.T) {
	source := `#[ink::contract]
mod my_contract {
    #[ink(storage)]
    pub struct MyContract {}

    impl MyContract {
        #[ink(message)]
        pub fn get(&self) {}
    }
}

#[ink::chain_extension]
pub trait MyExtension {
    #[ink(extension = 1)]
    fn read(key: u32) -> u32;
}

fn free_standing() {}`

	file := syntax.Parse(source)
	items := file.Root.Items()
	require.Len(t, items, 3)

	mod, ext, free := items[0], items[1], items[2]
	assert.Equal(t, ScopeFree, ResolveScope(mod))

	storage := mod.Items()[0]
	assert.Equal(t, ScopeContract, ResolveScope(storage))

	msg := mod.Items()[1].Items()[0]
	assert.Equal(t, ScopeContract, ResolveScope(msg))

	extFn := ext.Items()[0]
	assert.Equal(t, ScopeChainExtension, ResolveScope(extFn))

	assert.Equal(t, ScopeFree, ResolveScope(free))
}

func TestCfgModuleDetection(t *testing.T) {
	source := `#[cfg(test)]
mod tests {
    fn unit() {}
}

#[cfg(all(test, feature = "e2e-tests"))]
mod e2e_tests {
    fn e2e() {}
}

mod plain {
    fn nothing() {}
}`

	file := syntax.Parse(source)
	items := file.Root.Items()
	require.Len(t, items, 3)

	unit := items[0].Items()[0]
	assert.True(t, InTestModule(unit))
	assert.False(t, InE2ETestModule(unit))

	e2e := items[1].Items()[0]
	assert.True(t, InE2ETestModule(e2e))

	plain := items[2].Items()[0]
	assert.False(t, InTestModule(plain))
	assert.False(t, InE2ETestModule(plain))
}

func TestPrimaryAttributeSelection(t *testing.T) {
	source := `#[ink(payable)]
#[ink(message)]
fn m(&self) {}`
	file := syntax.Parse(source)
	fn := file.Root.Items()[0]

	primary := Primary(fn)
	require.NotNil(t, primary)
	assert.Equal(t, ArgAttr(Message), primary.Kind)
}
