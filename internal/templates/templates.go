package templates

import (
	"strings"

	"github.com/toyz/vtable/internal/models"
)

// FileData is the data for the file header
type FileData struct {
	PackageName string
	Imports     string
}

// DescriptorData is the data for one descriptor type
type DescriptorData struct {
	Name      string // descriptor type name
	Delegate  string
	Interface string // interface type name as seen from the package
	Qualified string // value returned by InterfaceName
	Bases     []BaseData
	Members   []MemberData
}

// BaseData is an embedded base descriptor
type BaseData struct {
	Type  string // type expression, qualified for other packages
	Field string // embedded field name
}

// MemberData is one named slot field of a descriptor
type MemberData struct {
	Field string
	Slot  string
}

// SlotData is the data for one slot type
type SlotData struct {
	Name        string // slot type name
	Delegate    string
	Interface   string
	Qualified   string
	Member      string
	Base        string // slot base type the delegate computed
	MethodIface string // single-method interface literal
	FuncType    string
	SetErr      bool
	Callable    bool
	CallParams  string
	CallArgs    string
	CallResults string
	HasResults  bool
}

// ReflectData is the data for a VisitFields method
type ReflectData struct {
	Name   string
	Embeds []EmbedData
	Fields []string
}

// EmbedData is an embedded reflected struct
type EmbedData struct {
	Field   string
	Pointer bool
}

// callReceiver is the receiver name used by generated slot methods
const callReceiver = "s"

// NewSlotData builds the slot data for member of decl under delegate
func NewSlotData(decl *models.InterfaceDecl, delegate string, member models.Member, slot models.SlotType) SlotData {
	sig := member.Signature
	return SlotData{
		Name:        decl.SlotName(delegate, member.Name),
		Delegate:    delegate,
		Interface:   decl.Name,
		Qualified:   decl.QualifiedName(),
		Member:      member.Name,
		Base:        slot.Expr,
		MethodIface: MethodInterface(member),
		FuncType:    sig.FuncType(),
		SetErr:      slot.SetErr,
		Callable:    slot.Callable,
		CallParams:  sig.CallParams(callReceiver),
		CallArgs:    sig.CallArgs(callReceiver),
		CallResults: sig.CallResults(),
		HasResults:  sig.HasResults(),
	}
}

// inlineLimit is the longest method spec kept on one line
const inlineLimit = 40

// MethodInterface renders an interface literal holding only member
func MethodInterface(member models.Member) string {
	spec := member.Signature.MethodSpec(member.Name)
	if len(spec) <= inlineLimit && !strings.Contains(spec, "\n") {
		return "interface{ " + spec + " }"
	}
	return "interface {\n\t" + spec + "\n}"
}

// RenderFile renders the file header followed by body
func RenderFile(packageName string, imports *ImportManager, body string) (string, error) {
	header, err := DefaultTemplateRegistry.Execute("file-header", FileData{
		PackageName: packageName,
		Imports:     imports.GenerateImports(),
	})
	if err != nil {
		return "", err
	}
	return header + body, nil
}

// RenderDescriptor renders a descriptor type and its methods
func RenderDescriptor(data DescriptorData) (string, error) {
	return DefaultTemplateRegistry.Execute("descriptor", data)
}

// RenderSlot renders a slot type and its methods
func RenderSlot(data SlotData) (string, error) {
	return DefaultTemplateRegistry.Execute("slot", data)
}

// RenderReflect renders the VisitFields method of a reflected struct
func RenderReflect(data ReflectData) (string, error) {
	return DefaultTemplateRegistry.Execute("reflect", data)
}
