package ir

// Statement is one entry in a script-level assertion-runner input
// (spec.md §4.10, §6 "Script-level surface"). Producing the parse/desugar
// outcome for assert_malformed is the job of the external parser; this
// engine only matches its already-known outcome against the expected
// prefix, the same way it matches assert_invalid's own validation error.
type Statement interface{ isStatement() }

// ComponentStmt processes a top-level component definition and, on
// success, records its component type.
type ComponentStmt struct {
	Reg       Region
	Component *Component
}

func (ComponentStmt) isStatement() {}

// AssertMalformedStmt asserts that an external parse/desugar attempt of
// some definition failed with a syntax error whose message begins with
// ExpectPrefix. ParseError is nil when parsing unexpectedly succeeded.
type AssertMalformedStmt struct {
	Reg         Region
	Description string
	ParseError  *string
	ExpectPrefix string
}

func (AssertMalformedStmt) isStatement() {}

// AssertInvalidStmt asserts that checking Component fails validation with
// an error whose message begins with ExpectPrefix.
type AssertInvalidStmt struct {
	Reg          Region
	Component    *Component
	ExpectPrefix string
}

func (AssertInvalidStmt) isStatement() {}

// Script is a sequence of statements, the unit the assertion runner
// executes (spec.md §4.10).
type Script struct {
	Statements []Statement
}
