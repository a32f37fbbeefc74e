package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/doorlock/pkg/env"
	fx "github.com/robotalks/doorlock/pkg/framework"
	"github.com/robotalks/doorlock/pkg/handshake"
	"github.com/robotalks/doorlock/pkg/link"
	"github.com/robotalks/doorlock/pkg/password"
	"github.com/robotalks/doorlock/pkg/remote"
)

// Shell provides ishell backed interactive shell acting as the remote unit.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	Timeout     time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is an open link to a control unit.
type Conn struct {
	URL    string
	Stream *link.Stream
	Remote *remote.Remote
}

// Result is the outcome of a request.
type Result struct {
	Request string `json:"request"`
	Reply   string `json:"reply"`
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	timeout    = time.Minute

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&SetupCmd,
		&OpenCmd,
		&ChangeCmd,
		&RawCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Request timeout, the link is dropped on expiry.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the link at linkURL.
func (s *Shell) Connect(linkURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	stream, err := link.Open(ctx, linkURL)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Conn = &Conn{URL: linkURL, Stream: stream, Remote: remote.New(stream)}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", linkURL))
	return nil
}

// Disconnect closes the current link.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Stream.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Do runs a request on the current link. The link is dropped when the
// request times out, as the exchange can't be resumed.
func (s *Shell) Do(fn func(*remote.Remote) error) error {
	if s.Conn == nil {
		return fmt.Errorf("not connected")
	}
	conn := s.Conn
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	err := fx.RunWithContextCancel(ctx, func() { conn.Stream.Close() }, func() error {
		return fn(conn.Remote)
	})
	if err == context.DeadlineExceeded {
		s.Disconnect()
		return fmt.Errorf("request timeout, disconnected")
	}
	return err
}

// Print prints a result.
func (s *Shell) Print(c *ishell.Context, res Result) {
	if s.OutputJSON {
		out, err := json.Marshal(&res)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(res.Reply)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.LinkURL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.LinkURL)
		}
		if err := s.Connect(s.Config.LinkURL); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.LinkURL, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func parsePasswords(c *ishell.Context, n int) ([]password.Password, bool) {
	if len(c.Args) != n {
		c.Err(fmt.Errorf("expect %d passwords of %d digits", n, password.Size))
		return nil, false
	}
	pws := make([]password.Password, n)
	for i, arg := range c.Args {
		pw, err := password.Parse(arg)
		if err != nil {
			c.Err(err)
			return nil, false
		}
		pws[i] = pw
	}
	return pws, true
}

func check(c *ishell.Context, action handshake.Command) {
	pws, ok := parsePasswords(c, 1)
	if !ok {
		return
	}
	s := ShellFrom(c)
	var reply handshake.Command
	err := s.Do(func(r *remote.Remote) (err error) {
		reply, err = r.Check(pws[0], action)
		return
	})
	if err != nil {
		c.Err(err)
		return
	}
	s.Print(c, Result{Request: action.String(), Reply: reply.String()})
}

// ParseCommand parses a command byte given as a single character or a
// number (e.g. 0x2b).
func ParseCommand(arg string) (handshake.Command, error) {
	if len(arg) == 1 {
		return handshake.Command(arg[0]), nil
	}
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid command byte %q", arg)
	}
	return handshake.Command(n), nil
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"p"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := link.ListSerialPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if ShellFrom(c).OutputJSON {
				if ports == nil {
					ports = []string{}
				}
				out, err := json.Marshal(ports)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// ConnectCmd opens a link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "LINK_URL",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("link URL expected"))
				return
			}
			if err := ShellFrom(c).Connect(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// SetupCmd provisions a password.
	SetupCmd = ishell.Cmd{
		Name:    "setup",
		Aliases: []string{"s"},
		Help:    "PASSWORD CONFIRM",
		Func: MustBeConnected(func(c *ishell.Context) {
			pws, ok := parsePasswords(c, 2)
			if !ok {
				return
			}
			s := ShellFrom(c)
			var status password.MatchStatus
			err := s.Do(func(r *remote.Remote) (err error) {
				status, err = r.Setup(pws[0], pws[1])
				return
			})
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, Result{Request: "setup", Reply: handshake.Command(status).String()})
		}),
	}

	// OpenCmd requests to open the door.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "PASSWORD",
		Func: MustBeConnected(func(c *ishell.Context) {
			check(c, handshake.OpenDoor)
		}),
	}

	// ChangeCmd requests to change the password, to be followed by setup.
	ChangeCmd = ishell.Cmd{
		Name: "change",
		Help: "PASSWORD",
		Func: MustBeConnected(func(c *ishell.Context) {
			check(c, handshake.ChangePassword)
		}),
	}

	// RawCmd sends a single command.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "BYTE",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("command byte expected"))
				return
			}
			cmd, err := ParseCommand(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			if err = s.Do(func(r *remote.Remote) error { return r.Send(cmd) }); err != nil {
				c.Err(err)
				return
			}
			s.Print(c, Result{Request: cmd.String(), Reply: "SENT"})
		}),
	}
)

// Main is a helper to provide a single call in main. It connects on
// start only when the link is given explicitly.
func Main() {
	flag.Parse()
	autoConnect := os.Getenv("DOORLOCK_LINK") != ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "link" {
			autoConnect = true
		}
	})
	New(env.NewConfig()).WithAutoConnect(autoConnect).Run(flag.Args()...)
}
