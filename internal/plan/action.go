package plan

// Action is one step inside a target. The set of implementations is closed;
// consumers switch on the concrete type.
type Action interface {
	action()
}

// Exec invokes an external command.
type Exec struct {
	Executable string
	// Dir is the working directory, relative to the base directory.
	Dir  string
	Args []string
	// Output and Error, when set, redirect the streams to files relative to
	// the base directory.
	Output string
	Error  string
	// Status, when set, is a file receiving the exit status of the command,
	// relative to the base directory. A command that could not be started
	// leaves the start error there instead.
	Status string
	// FailOnError makes a non-zero exit fatal for the enclosing target.
	FailOnError bool
}

// Mkdir creates a directory and its parents.
type Mkdir struct {
	Dir string
}

// Fileset selects files below Dir by doublestar include and exclude patterns.
type Fileset struct {
	Dir     string
	Include []string
	Exclude []string
}

// Delete removes Dir entirely, or only the files matched by Fileset.
type Delete struct {
	Dir     string
	Fileset *Fileset
	// FailOnError false turns a failed deletion into a warning.
	FailOnError bool
}

// Echo writes Text to File, or logs Message when File is empty.
type Echo struct {
	File    string
	Text    string
	Message string
	Append  bool
}

// Touch creates File if needed and sets its modification time to now.
type Touch struct {
	File string
}

// UpToDate sets Property when Target is not older than Src.
type UpToDate struct {
	Src      string
	Target   string
	Property string
}

// Parallel runs independent invocations on at most Threads workers. A failing
// task never stops its siblings.
type Parallel struct {
	Threads int
	Tasks   []Exec
	// Names labels each task; Names[i] belongs to Tasks[i].
	Names []string
}

// Available sets Property when File exists.
type Available struct {
	File     string
	Property string
}

// Call runs another target of the same plan.
type Call struct {
	Target string
}

// Aggregate folds the per-suite output and error artifacts found in
// ResultsDir into the aggregate result file Output.
type Aggregate struct {
	ResultsDir string
	Output     string
	Suites     []string
}

// ResultGate fails the build unless the aggregate result in File reports
// zero errors and zero failures.
type ResultGate struct {
	File    string
	Message string
}

func (Exec) action() {}
func (Mkdir) action() {}
func (Delete) action() {}
func (Echo) action() {}
func (Touch) action() {}
func (UpToDate) action() {}
func (Parallel) action() {}
func (Available) action() {}
func (Call) action() {}
func (Aggregate) action() {}
func (ResultGate) action() {}
