package datum

// TypeCode identifies the dynamic type of a Datum, mirroring the closed
// set of value kinds Lingo scripts can observe via ilk()/voidp()-style
// introspection.
type TypeCode int

const (
	TypeVoid TypeCode = iota
	TypeInteger
	TypeFloat
	TypeString
	TypeSymbol
	TypeList
	TypePropList
	TypeVarRef
	TypeScriptInstance
	TypeObjectRef
)

func (t TypeCode) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeList:
		return "list"
	case TypePropList:
		return "propList"
	case TypeVarRef:
		return "varRef"
	case TypeScriptInstance:
		return "instance"
	case TypeObjectRef:
		return "objectRef"
	default:
		return "unknown"
	}
}
