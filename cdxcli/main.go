package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chemfile/chemdraw"
	"github.com/chemfile/chemdraw/cdx"
	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'chem.cdx'
func tracer() tracing.Trace {
	return tracing.Select("chem.cdx")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.chem.cdx":     "Info",
		"trace.chem.cdxml":   "Info",
		"trace.chem.convert": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	filename := flag.String("file", "", "CDX or CDXML file to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the ChemDraw file CLI")
	//
	// set up REPL
	repl, err := readline.New("cdx > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, stack: make([]pathNode, 0, 100)}
	//
	// load document to browse
	if *filename != "" {
		if err := intp.loadDocument(*filename); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

type pathNode struct {
	node *cdx.Node
	inx  int
}

func (n *pathNode) String() string {
	if n == nil || n.node == nil {
		return "<none>"
	}
	name := n.node.Name
	if name == "" {
		name = n.node.Tag.String()
	}
	s := name
	if n.inx >= 0 {
		s += fmt.Sprintf("[%d]", n.inx)
	}
	if n.node.ID != 0 {
		s += fmt.Sprintf(" id=%d", n.node.ID)
	}
	return s
}

// Intp is our interpreter object
type Intp struct {
	doc   *chemDoc
	repl  *readline.Instance
	stack []pathNode
}

// chemDoc bundles a parsed document with the file it came from.
type chemDoc struct {
	doc      *cdx.Document
	filename string
}

func (intp *Intp) String() string {
	if intp == nil || intp.doc == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( doc=%s )", intp.doc.filename))
	for _, node := range intp.stack {
		sb.WriteString(fmt.Sprintf(" -> %s", node.String()))
	}
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		println(line)
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-codes QUIT and UP will not have arguments
	QUIT int = iota
	UP
	// op-codes below may have arguments
	HELP
	OPEN
	INFO
	NODES
	DOWN
	PROPS
	FONTS
	COLORS
	TEXT
	FIND
	PRINT
)

var opMap = map[string]int{
	"quit":   QUIT,
	"up":     UP,
	"..":     UP,
	"help":   HELP,
	"open":   OPEN,
	"info":   INFO,
	"nodes":  NODES,
	"down":   DOWN,
	"props":  PROPS,
	"fonts":  FONTS,
	"colors": COLORS,
	"text":   TEXT,
	"find":   FIND,
	"print":  PRINT,
}

var opNames = []string{
	"quit",
	"up",
	"help",
	"open",
	"info",
	"nodes",
	"down",
	"props",
	"fonts",
	"colors",
	"text",
	"find",
	"print",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Split(line, " ")
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":") // e.g.  "down:3" or "find:17" or "help:props" or "nodes"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		command.op[i].arg = ""
		if command.op[i].code <= UP {
			return &command, nil
		}
		tracer().Infof("parsed command: %v", c)
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Infof("%s", opNames[command.op[i].code])
		} else {
			tracer().Infof("%s: looking for '%s'", opNames[command.op[i].code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	UP:     upOp,
	HELP:   helpOp,
	OPEN:   openOp,
	INFO:   infoOp,
	NODES:  nodesOp,
	DOWN:   downOp,
	PROPS:  propsOp,
	FONTS:  fontsOp,
	COLORS: colorsOp,
	TEXT:   textOp,
	FIND:   findOp,
	PRINT:  printOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op)
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func upOp(intp *Intp, op *Op) (error, bool) {
	if len(intp.stack) == 0 {
		tracer().Infof("already at the document root")
		return nil, false
	}
	intp.stack = intp.stack[:len(intp.stack)-1]
	return nil, false
}

func openOp(intp *Intp, op *Op) (error, bool) {
	name, ok := op.hasArg()
	if !ok {
		return errors.New("open needs a file name, e.g. 'open:mol.cdxml'"), false
	}
	return intp.loadDocument(name), false
}

func downOp(intp *Intp, op *Op) (error, bool) {
	cur, err := intp.checkLocation()
	if err != nil {
		return err, false
	}
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("down needs a child index, e.g. 'down:0'"), false
	}
	inx, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("not a child index: %s", arg), false
	}
	if inx < 0 || inx >= len(cur.Children) {
		return fmt.Errorf("child index out of range: %d", inx), false
	}
	intp.stack = append(intp.stack, pathNode{node: cur.Children[inx], inx: inx})
	return nil, false
}

func findOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkDocument(); err != nil {
		return err, false
	}
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("find needs an object ID, e.g. 'find:17'"), false
	}
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return fmt.Errorf("not an object ID: %s", arg), false
	}
	path, found := findPath(intp.doc.doc.Root, uint32(id))
	if !found {
		return fmt.Errorf("no object with ID %d", id), false
	}
	intp.stack = path
	tracer().Infof("found object %d at depth %d", id, len(path))
	return nil, false
}

// findPath returns the stack of path nodes leading from the root (exclusive)
// to the node with the given ID.
func findPath(root *cdx.Node, id uint32) ([]pathNode, bool) {
	for i, c := range root.Children {
		if c.ID == id {
			return []pathNode{{node: c, inx: i}}, true
		}
		if sub, ok := findPath(c, id); ok {
			return append([]pathNode{{node: c, inx: i}}, sub...), true
		}
	}
	return nil, false
}

// --- Document Loading -------------------------------------------------

func (intp *Intp) loadDocument(filename string) error {
	var doc *cdx.Document
	var err error
	if strings.HasSuffix(strings.ToLower(filename), ".cdxml") {
		doc, err = chemdraw.ReadCDXMLFile(filename)
	} else {
		doc, err = chemdraw.ReadCDXFile(filename)
	}
	if err != nil {
		tracer().Errorf("cannot load document %s: %s", filename, err)
		return err
	}
	tracer().Infof("loaded document = %s", filename)
	for _, w := range doc.Warnings() {
		pterm.Warning.Println(w.String())
	}
	for _, e := range doc.Problems() {
		pterm.Error.Println(e.Error())
	}
	intp.doc = &chemDoc{doc: doc, filename: filename}
	intp.stack = intp.stack[:0]
	pterm.Printf("document pages: %d\n", len(doc.Pages()))
	return nil
}

// ----------------------------------------------------------------------

func (intp *Intp) lastPathNode() pathNode {
	if len(intp.stack) == 0 {
		return pathNode{inx: -1}
	}
	return intp.stack[len(intp.stack)-1]
}

var ERR_NO_DOCUMENT = errors.New("no document loaded")

func (intp *Intp) checkDocument() error {
	if intp.doc == nil {
		return ERR_NO_DOCUMENT
	}
	return nil
}

// checkLocation returns the node commands operate on, i.e. the top of the
// path stack or the document root with an empty stack.
func (intp *Intp) checkLocation() (*cdx.Node, error) {
	if err := intp.checkDocument(); err != nil {
		return nil, err
	}
	if n := intp.lastPathNode().node; n != nil {
		return n, nil
	}
	return intp.doc.doc.Root, nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	if op.arg == "" {
		return true
	}
	return false
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
