package ast

import (
	"fmt"
	"strings"
)

// Check validates an AST without modifying it.
type Check interface {
	Name() string
	Check(prog *Program) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(prog *Program) error {
	for _, c := range cc {
		if err := c.Check(prog); err != nil {
			return err
		}
	}
	return nil
}

// RedefinedError reports a name declared twice in the same scope.
type RedefinedError struct {
	Name string
	Line int
}

func (e *RedefinedError) Error() string {
	return fmt.Sprintf("line %d: name redefined: %s", e.Line, e.Name)
}

// Redefinitions rejects a variable, constant or procedure declared twice
// in one scope. Procedure parameters belong to the procedure's scope.
type Redefinitions struct{}

func (Redefinitions) Name() string { return "redefinitions" }

func (Redefinitions) Check(prog *Program) error {
	return declareScope(prog.Body, nil)
}

func declareScope(body []Statement, params []*Parameter) error {
	seen := map[string]bool{}
	for _, p := range params {
		seen[strings.ToLower(p.ID.Name)] = true
	}
	declare := func(id *Identifier, line int) error {
		key := strings.ToLower(id.Name)
		if seen[key] {
			return &RedefinedError{Name: id.Name, Line: line}
		}
		seen[key] = true
		return nil
	}

	var err error
	for _, s := range body {
		Inspect(s, func(n, _ Node) bool {
			if err != nil {
				return false
			}
			switch n := n.(type) {
			case *VariableDeclaration:
				for _, d := range n.Declarations {
					if err = declare(d.ID, n.SourceLine); err != nil {
						return false
					}
				}
			case *FunctionDeclaration:
				if err = declare(n.Name, n.SourceLine); err == nil {
					err = declareScope(n.Body, n.Params)
				}
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
