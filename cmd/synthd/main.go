// Command synthd is the network-controlled polyphonic synthesizer's entry
// point: it compiles a generator-vector source file into N voices, binds
// the control socket, and pumps mixed audio to the default output device.
package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/pflag"

	"github.com/nyxaudio/synthd/internal/audiosink"
	"github.com/nyxaudio/synthd/internal/lang"
	"github.com/nyxaudio/synthd/internal/mixer"
	"github.com/nyxaudio/synthd/internal/netctl"
	"github.com/nyxaudio/synthd/internal/signal"
)

const defaultListenAddr = "0.0.0.0:13676"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "client":
		os.Exit(runClient(os.Args[2:]))
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: synthd client [flags] <generator-vector-file>")
}

// resizeVoices pads gens with silent (constant-0) voices or truncates it to
// exactly n entries, implementing the --voices override.
func resizeVoices(gens []signal.Generator, n int) []signal.Generator {
	if n <= len(gens) {
		return gens[:n]
	}
	out := make([]signal.Generator, n)
	copy(out, gens)
	for i := len(gens); i < n; i++ {
		out[i] = signal.NewParam("_", 0)
	}
	return out
}

func runClient(args []string) int {
	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	listenAddr := fs.StringP("listen", "l", defaultListenAddr, "UDP address to bind the control socket on")
	sampleRate := fs.IntP("sample-rate", "r", int(signal.DefaultEnvironment().SampleRate), "output sample rate in Hz")
	blockSize := fs.IntP("block-size", "b", signal.DefaultEnvironment().DefaultBufferSize, "frames per audio block")
	voices := fs.IntP("voices", "n", 0, "voice count (default: number of top-level generators parsed from the source file)")
	if err := fs.Parse(args); err != nil {
		log.Printf("synthd: %v", err)
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: synthd client [flags] <generator-vector-file>")
		return 2
	}
	path := fs.Arg(0)

	env := signal.Environment{SampleRate: float32(*sampleRate), DefaultBufferSize: *blockSize}

	src, err := os.ReadFile(path)
	if err != nil {
		log.Printf("synthd: failed to open %s: %v", path, err)
		return 1
	}

	parser, err := lang.NewParser(lang.NewTokenizer(string(src)), env)
	if err != nil {
		log.Printf("synthd: failed to tokenize %s: %v", path, err)
		return 1
	}
	gens, err := parser.ParseGenVec()
	if err != nil {
		log.Printf("synthd: failed to compile generators in %s: %v", path, err)
		return 1
	}
	log.Printf("synthd: parsed %d generator definitions", len(gens))

	if *voices > 0 {
		gens = resizeVoices(gens, *voices)
		log.Printf("synthd: resized to %d voices per --voices", len(gens))
	}

	conn, err := net.ListenPacket("udp", *listenAddr)
	if err != nil {
		log.Printf("synthd: failed to bind %s: %v", *listenAddr, err)
		return 1
	}
	defer conn.Close()

	mx := mixer.New(env, gens)
	source := mixer.NewSource(mx)

	sink, err := audiosink.NewSink(int(env.SampleRate), source)
	if err != nil {
		log.Printf("synthd: failed to open audio output: %v", err)
		return 1
	}
	sink.Play()
	log.Printf("synthd: audio stream started")

	srv := netctl.New(conn, mx)
	log.Printf("synthd: listening on %s", *listenAddr)
	err = srv.Serve()

	if stopErr := sink.Stop(); stopErr != nil {
		log.Printf("synthd: error stopping audio output: %v", stopErr)
	}

	if err != nil {
		log.Printf("synthd: network thread exited: %v", err)
		return 1
	}
	log.Printf("synthd: exiting")
	return 0
}
