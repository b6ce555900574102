// Uuid namespace wiring: SPEC_FULL.md §4.10 adds a `Uuid` namespace of
// host-backed helpers (`Uuid::new`, `Uuid::nil`, `Uuid::parse`,
// `Uuid::valid`) on top of
// google/uuid, a dependency the teacher's go.mod already required but
// never imported. These are reached exactly like any other builtin
// (`__builtin_uuid_new` etc.) via evalBuiltinCall's generic table; the
// `Uuid` name itself is installed as an object.Namespace by NewGlobalEnvironment so
// `use Uuid;` or `Uuid::new()` both work (spec.md §4.5 "Use"/"ScopeResolve").
package evaluator

import (
	"github.com/google/uuid"

	"github.com/piecake/pie/internal/object"
)

func (e *Evaluator) uuidBuiltins() map[string]func(args []object.Value) (object.Value, error) {
	return map[string]func(args []object.Value) (object.Value, error){
		"__builtin_uuid_new": func(args []object.Value) (object.Value, error) {
			return &object.String{Value: uuid.New().String()}, nil
		},
		"__builtin_uuid_nil": func(args []object.Value) (object.Value, error) {
			return &object.String{Value: uuid.Nil.String()}, nil
		},
		"__builtin_uuid_parse": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("uuid_parse", "expects 1 argument")
			}
			s, ok := args[0].(*object.String)
			if !ok {
				return nil, builtinErr("uuid_parse", "argument must be String")
			}
			id, err := uuid.Parse(s.Value)
			if err != nil {
				return nil, builtinErr("uuid_parse", "not a valid UUID")
			}
			return &object.String{Value: id.String()}, nil
		},
		"__builtin_uuid_valid": func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, builtinErr("uuid_valid", "expects 1 argument")
			}
			s, ok := args[0].(*object.String)
			if !ok {
				return nil, builtinErr("uuid_valid", "argument must be String")
			}
			_, err := uuid.Parse(s.Value)
			return &object.Bool{Value: err == nil}, nil
		},
	}
}

// UuidNamespace builds the `Uuid` namespace value the prelude installs
// at the top of every program's global environment, exposing the
// uuid-backed builtins as ordinary namespace members (callable as
// `Uuid::new()` or, after `use Uuid;`, as bare `new()`).
func UuidNamespace() *object.Namespace {
	members := []object.NamespaceMember{
		{Name: "new", Value: &object.String{Value: "__builtin_uuid_new"}},
		{Name: "nil", Value: &object.String{Value: "__builtin_uuid_nil"}},
		{Name: "parse", Value: &object.String{Value: "__builtin_uuid_parse"}},
		{Name: "valid", Value: &object.String{Value: "__builtin_uuid_valid"}},
	}
	return &object.Namespace{Name: "Uuid", Members: &members}
}
