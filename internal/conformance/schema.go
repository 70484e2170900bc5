package conformance

// Suite is a single YAML fixture file (spec §1.5's "declarative test
// cases" extended from MOO source snippets to Lingo bytecode), grounded
// on MongooseMoo-barn/conformance/schema.go's TestSuite/TestCase split.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// Case is one scenario: a handler assembled from Instructions, called
// with Args, checked against Expect.
type Case struct {
	Name         string        `yaml:"name"`
	ParamCount   int           `yaml:"params,omitempty"`
	Args         []ArgValue    `yaml:"args,omitempty"`
	Instructions []Instruction `yaml:"instructions"`
	StepBudget   int           `yaml:"stepBudget,omitempty"`
	Expect       Expectation   `yaml:"expect"`
}

// Instruction names an opcode mnemonic (container.OpCodeByName) plus
// either a raw integer argument or a name-table reference, depending on
// what that opcode consumes (spec §4.2's instruction shape).
type Instruction struct {
	Op   string `yaml:"op"`
	Arg  int32  `yaml:"arg,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// ArgValue is one call argument, or handler-param seed value.
type ArgValue struct {
	Type  string `yaml:"type"`
	Value any    `yaml:"value,omitempty"`
}

// Expectation checks the case's outcome: either a returned Datum value,
// a fault kind (VmFault, surfaced as Execute's error), or a count of
// OpFaults the sink recorded (spec §8 S2: "logs one OpFault").
type Expectation struct {
	Result   *ArgValue `yaml:"result,omitempty"`
	Fault    string    `yaml:"fault,omitempty"`
	OpFaults int       `yaml:"opFaults,omitempty"`
}
