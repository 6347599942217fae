package analysis

import (
	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// Entity actions materialize child declarations implied by context:
// a contract module gets storage/event/constructor/message stubs, a
// chain extension gets an ErrorCode type and extension functions, a
// trait definition gets message declarations, a cfg(test) module gets
// test functions.

type entityStub struct {
	label   string
	plain   string
	snippet string
}

var (
	storageStub = entityStub{
		label:   "Add ink! storage struct",
		plain:   "#[ink(storage)]\npub struct Storage {}",
		snippet: "#[ink(storage)]\npub struct ${1:Storage} {}",
	}
	eventStub = entityStub{
		label:   "Add ink! event struct",
		plain:   "#[ink(event)]\npub struct Event {}",
		snippet: "#[ink(event)]\npub struct ${1:Event} {}",
	}
	constructorStub = entityStub{
		label:   "Add ink! constructor fn",
		plain:   "#[ink(constructor)]\npub fn new() -> Self {\n    todo!()\n}",
		snippet: "#[ink(constructor)]\npub fn ${1:new}() -> Self {\n    ${2:todo!()}\n}",
	}
	messageStub = entityStub{
		label:   "Add ink! message fn",
		plain:   "#[ink(message)]\npub fn my_message(&self) {\n    todo!()\n}",
		snippet: "#[ink(message)]\npub fn ${1:my_message}(&self) {\n    ${2:todo!()}\n}",
	}
	testStub = entityStub{
		label:   "Add ink! test fn",
		plain:   "#[ink::test]\nfn it_works() {\n    todo!()\n}",
		snippet: "#[ink::test]\nfn ${1:it_works}() {\n    ${2:todo!()}\n}",
	}
	e2eTestStub = entityStub{
		label:   "Add ink! e2e test fn",
		plain:   "#[ink_e2e::test]\nasync fn it_works(mut client: ink_e2e::Client<C, E>) -> E2EResult<()> {\n    todo!()\n}",
		snippet: "#[ink_e2e::test]\nasync fn ${1:it_works}(mut client: ink_e2e::Client<C, E>) -> E2EResult<()> {\n    ${2:todo!()}\n}",
	}
	errorCodeStub = entityStub{
		label:   "Add ink! chain extension ErrorCode type",
		plain:   "type ErrorCode = CustomErrorCode;",
		snippet: "type ErrorCode = ${1:CustomErrorCode};",
	}
	extensionStub = entityStub{
		label:   "Add ink! extension fn",
		plain:   "#[ink(extension = 1)]\nfn my_extension();",
		snippet: "#[ink(extension = ${1:1})]\nfn ${2:my_extension}();",
	}
	messageDeclStub = entityStub{
		label:   "Add ink! message declaration",
		plain:   "#[ink(message)]\nfn my_message(&self);",
		snippet: "#[ink(message)]\nfn ${1:my_message}(&self);",
	}
	topicStub = entityStub{
		label:   "Add ink! topic field",
		plain:   "#[ink(topic)]\nmy_topic: u32,",
		snippet: "#[ink(topic)]\n${1:my_topic}: ${2:u32},",
	}
)

// entityActions computes the add-child refactors for an item focused
// in its body (or on its declaration).
func entityActions(f focus) []Action {
	item := f.item
	if _, hasBody := item.BodyRange(); !hasBody {
		return nil
	}

	var stubs []entityStub
	primary := ir.Primary(item)

	switch {
	case primary != nil && primary.Kind == ir.MacroAttr(ir.Contract):
		if !hasChildEntity(item, ir.ArgAttr(ir.Storage)) {
			stubs = append(stubs, storageStub)
		}
		stubs = append(stubs, eventStub, constructorStub, messageStub)
	case primary != nil && primary.Kind == ir.MacroAttr(ir.ChainExtension):
		if !hasErrorCodeType(item) {
			stubs = append(stubs, errorCodeStub)
		}
		stubs = append(stubs, extensionStub)
	case primary != nil && primary.Kind == ir.MacroAttr(ir.TraitDefinition):
		stubs = append(stubs, messageDeclStub)
	case primary != nil && primary.Kind == ir.ArgAttr(ir.Event):
		stubs = append(stubs, topicStub)
	case item.Kind == syntax.MODULE && ir.IsCfgE2EModule(item):
		stubs = append(stubs, e2eTestStub)
	case item.Kind == syntax.MODULE && ir.IsCfgTestModule(item):
		stubs = append(stubs, testStub)
	case item.Kind == syntax.IMPL && ir.ResolveScope(item) == ir.ScopeContract:
		stubs = append(stubs, constructorStub, messageStub)
	}

	offset := bodyInsertOffset(f)
	var actions []Action
	for _, stub := range stubs {
		actions = append(actions, stubAction(f, stub, offset))
	}
	return actions
}

// stubAction wraps a stub into an insertion at the body offset with
// one level of indentation below the parent item.
func stubAction(f focus, stub entityStub, offset int) Action {
	parentIndent := lineIndent(f.file.Source, f.item.InsertOffset())
	indent := parentIndent + "    "
	plain := "\n" + indentBlock(stub.plain, indent) + "\n" + parentIndent
	snippet := "\n" + indentBlock(stub.snippet, indent) + "\n" + parentIndent
	return Action{
		Label: stub.label,
		Kind:  Refactor,
		Range: f.item.Range,
		Edits: []TextEdit{Insert(offset, plain, snippet)},
	}
}

// hasChildEntity reports whether a direct or nested child item already
// carries the given ink! attribute kind.
func hasChildEntity(item *syntax.Node, kind ir.AttributeKind) bool {
	for _, child := range item.Items() {
		for _, attr := range ir.Attributes(child) {
			if attr.Kind == kind {
				return true
			}
		}
		if hasChildEntity(child, kind) {
			return true
		}
	}
	return false
}

// hasErrorCodeType reports whether a trait already declares an
// associated type named ErrorCode.
func hasErrorCodeType(trait *syntax.Node) bool {
	for _, child := range trait.Items() {
		if child.Kind == syntax.TYPE_ALIAS && child.Name != nil && child.Name.Text == "ErrorCode" {
			return true
		}
	}
	return false
}

// rootEntityActions lists the file-root adds: a contract when none
// exists yet, then the free-standing entity macros.
func rootEntityActions(file *syntax.File, offset int) []Action {
	var actions []Action
	if !fileHasContract(file) {
		actions = append(actions, rootMacroAction(file, offset, ir.Contract, "Add ink! contract"))
	}
	actions = append(actions,
		rootMacroAction(file, offset, ir.TraitDefinition, "Add ink! trait definition"),
		rootMacroAction(file, offset, ir.ChainExtension, "Add ink! chain extension"),
		rootMacroAction(file, offset, ir.StorageItem, "Add ink! storage item"),
	)
	return actions
}

func rootMacroAction(file *syntax.File, offset int, kind ir.MacroKind, label string) Action {
	text := macroText(kind)
	return Action{
		Label: label,
		Kind:  Refactor,
		Range: syntax.EmptyRange(offset),
		Edits: []TextEdit{Insert(offset, text, text)},
	}
}

func fileHasContract(file *syntax.File) bool {
	var walk func(n *syntax.Node) bool
	walk = func(n *syntax.Node) bool {
		for _, child := range n.Children {
			if child.IsItem() {
				for _, attr := range ir.Attributes(child) {
					if attr.Kind == ir.MacroAttr(ir.Contract) {
						return true
					}
				}
				if walk(child) {
					return true
				}
			}
		}
		return false
	}
	return walk(file.Root)
}
