package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"PairBoard/internal/board"
	"PairBoard/internal/content"
	"PairBoard/internal/export"
	pbnet "PairBoard/internal/net"
	"PairBoard/internal/remote"
)

const defaultPort = 8888

// peer bundles one running peer process: the canvas core plus its boundary
// adapters. All core mutation is funneled through the events channel so the
// engine stays single-threaded.
type peer struct {
	sess    *board.Session
	capture *board.Capture
	bcast   *remote.Broadcaster
	proc    *remote.Processor
	source  content.Source
	docs    content.DocumentSource
	retry   content.RetryPolicy
	events  chan func()
}

func newPeer() *peer {
	id := uuid.NewString()
	sess := board.NewSession(id)
	p := &peer{
		sess:    sess,
		capture: board.NewCapture(sess, board.DefaultToolConfig()),
		bcast:   remote.NewBroadcaster(id),
		proc:    remote.NewProcessor(sess),
		source: content.StaticSource{
			"practice": {Width: 1200, Height: 1700},
			"sample":   {Width: 1200, Height: 2400},
		},
		docs: content.StaticDocumentSource{
			"worksheet": {PageHeights: []int{1600, 1600, 1200}, ContentWidth: 1100, PageGap: 24, Padding: 40},
		},
		retry:  content.DefaultRetryPolicy(content.Dimensions(board.DefaultSpace)),
		events: make(chan func(), 64),
	}
	sess.OnLocalOp = p.bcast.Broadcast
	return p
}

func (p *peer) attach(conn *pbnet.Conn) {
	p.bcast.Attach(conn)
	go conn.ReadLoop(
		func(msg remote.Message) {
			p.events <- func() { p.proc.Handle(msg) }
		},
		func() {
			p.events <- func() {
				p.bcast.Detach()
				p.proc.ChannelClosed()
				log.Println("[main] peer channel closed")
			}
		},
	)
}

func main() {
	host := flag.Bool("host", false, "host a session and wait for a peer")
	join := flag.String("join", "", "join a hosted session at host:port, or \"auto\" to discover one")
	port := flag.Int("port", defaultPort, "port to host on")
	flag.Parse()

	p := newPeer()

	switch {
	case *host:
		runHost(p, *port)
	case *join != "":
		runClient(p, *join)
	default:
		fmt.Println("usage: pairboard -host | -join host:port | -join auto")
		os.Exit(2)
	}
}

func runHost(p *peer, port int) {
	log.Println("[main] starting as HOST")

	if server, err := pbnet.Advertise(port); err != nil {
		log.Printf("[main] mDNS advertise failed: %v", err)
	} else {
		defer server.Shutdown()
	}

	srv := pbnet.NewServer(func(conn *pbnet.Conn) {
		p.events <- func() { p.attach(conn) }
	})
	go func() {
		if err := srv.ListenAndServe(port); err != nil {
			log.Fatalf("[main] server failed: %v", err)
		}
	}()

	if ip, err := pbnet.OutgoingIP(); err == nil {
		log.Printf("[main] share this address: %s:%d", ip, port)
	}
	runLoop(p)
}

func runClient(p *peer, addr string) {
	log.Println("[main] starting as CLIENT")
	if addr == "auto" {
		found, err := discoverHost(pbnet.Browse)
		if err != nil {
			log.Fatalf("[main] discovery: %v", err)
		}
		log.Printf("[main] discovered host at %s", found)
		addr = found
	}
	conn, err := pbnet.Dial(addr)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	p.attach(conn)
	runLoop(p)
}

// runLoop multiplexes stdin commands and inbound messages onto one event
// loop. Commands exist so a headless peer can be driven and inspected; a UI
// front-end would call the same session/capture methods.
func runLoop(p *peer) {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	for {
		select {
		case fn := <-p.events:
			fn()
		case line, ok := <-lines:
			if !ok {
				return
			}
			runCommand(p, strings.Fields(line))
		}
	}
}

func runCommand(p *peer, args []string) {
	if len(args) == 0 {
		return
	}
	var err error
	switch args[0] {
	case "stroke":
		err = demoStroke(p, args[1:])
	case "text":
		if len(args) >= 4 {
			x, _ := strconv.ParseFloat(args[1], 64)
			y, _ := strconv.ParseFloat(args[2], 64)
			err = p.capture.PlaceText(x, y, strings.Join(args[3:], " "))
		}
	case "tool":
		if len(args) == 2 {
			cfg := p.capture.Config()
			cfg.Tool = board.Tool(args[1])
			p.capture.SetConfig(cfg)
		}
	case "color":
		if len(args) == 2 {
			cfg := p.capture.Config()
			cfg.StrokeColor = args[1]
			p.capture.SetConfig(cfg)
		}
	case "undo":
		err = p.sess.Undo()
	case "redo":
		err = p.sess.Redo()
	case "clear":
		err = p.sess.Clear()
	case "bg":
		err = setBackground(p, args[1:])
	case "export":
		err = doExport(p, args[1:])
	case "status":
		printStatus(p)
	default:
		log.Printf("[main] unknown command %q", args[0])
	}
	if err != nil {
		log.Printf("[main] %s: %v", args[0], err)
	}
}

// demoStroke draws a pen stroke through the given x,y pairs using the full
// gesture pipeline.
func demoStroke(p *peer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("need at least two points")
	}
	pts := make([][2]float64, 0, len(args))
	for _, a := range args {
		xy := strings.SplitN(a, ",", 2)
		if len(xy) != 2 {
			return fmt.Errorf("bad point %q", a)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return err
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return err
		}
		pts = append(pts, [2]float64{x, y})
	}
	if err := p.capture.PointerDown(pts[0][0], pts[0][1]); err != nil {
		return err
	}
	for _, pt := range pts[1:] {
		if err := p.capture.PointerMove(pt[0], pt[1]); err != nil {
			return err
		}
	}
	last := pts[len(pts)-1]
	return p.capture.PointerUp(last[0], last[1])
}

func setBackground(p *peer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("need a background kind")
	}
	kind := board.BackgroundKind(args[0])
	ref := ""
	if len(args) > 1 {
		ref = args[1]
	}
	space := board.DefaultSpace
	switch kind {
	case board.BackgroundDocument:
		// The document's canvas size comes from its pagination layout, not
		// from a locally observed render size.
		layout, err := p.docs.Layout(context.Background(), ref)
		if err != nil {
			log.Printf("[main] %v; using fallback size", err)
			break
		}
		space = board.DocumentSpace(layout.PageHeights, layout.ContentWidth, layout.PageGap, layout.Padding)
	case board.BackgroundImage:
		dims, ok := content.AwaitDimensions(p.retry, func() (content.Dimensions, bool) {
			d, err := p.source.Resolve(context.Background(), ref)
			return d, err == nil
		})
		if !ok {
			log.Printf("[main] image %q never reported a size; using fallback", ref)
		}
		space = board.CanvasSpace(dims)
	}
	return p.sess.SetBackground(kind, ref, space)
}

// discoverHost browses the local network for an advertised session and
// returns the first address that answers.
func discoverHost(browse func(found func(addr string)) error) (string, error) {
	found := make(chan string, 1)
	err := browse(func(addr string) {
		select {
		case found <- addr:
		default:
		}
	})
	if err != nil {
		return "", err
	}
	select {
	case addr := <-found:
		return addr, nil
	default:
		return "", fmt.Errorf("no hosted session found on the local network")
	}
}

func doExport(p *peer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("need an output path ending in .pdf or .png")
	}
	path := args[0]
	drawables := p.sess.Surface().Drawables()
	if strings.HasSuffix(path, ".png") {
		return export.PNG(path, p.sess.Space(), drawables)
	}
	return export.PDF(path, p.sess.Space(), drawables)
}

func printStatus(p *peer) {
	bg := p.sess.Background()
	fmt.Printf("peer %s  drawables=%d  step=%d/%d  background=%s %dx%d  connected=%v\n",
		p.sess.PeerID(), p.sess.Surface().Len(),
		p.sess.History().Step(), p.sess.History().Depth()-1,
		bg.Kind, bg.Space.Width, bg.Space.Height, p.bcast.Connected())
}
