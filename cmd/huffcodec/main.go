// huffcodec compresses and decompresses files with a byte-oriented Huffman
// code.
//
// Usage:
//
//	huffcodec [options] compress <input> <output>
//	huffcodec [options] decompress <input> <output>
//
// Use '-' as <input> to read from stdin, or as <output> to write to stdout.
// Compressing from stdin buffers the whole input in memory.
//
// Options:
//
//	-config <file>      Configuration file (default /etc/huffcodec/huffcodec.toml)
//	-verbose            Log each phase of the run
//	-stats              Print compression statistics
//	-force              Overwrite the output file if it exists
//	-dump-tree          Dump the Huffman tree level by level to stderr
//	-dump-codes         Dump the frequency and code tables to stderr
//	-buffer-size <n>    Size of the read and write buffers, in bytes
//	-example-config     Print an example configuration file and exit
//	-version            Print version information and exit
//
// Every option can also be set in the configuration file, or through an
// environment variable named HUFFCODEC_<OPTION>, e.g. HUFFCODEC_STATS=true.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chronos-tachyon/huffcodec"
	"github.com/chronos-tachyon/huffcodec/internal/config"
)

const version = "1.0.0"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	cfg    config.Configuration
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	fs := flag.NewFlagSet("huffcodec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs, stderr) }
	showVer := fs.Bool("version", false, "Print version information and exit")
	showExample := fs.Bool("example-config", false, "Print an example configuration file and exit")

	cfg, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		logger.Printf("%s %v", config.System, err)
		return exitUsage
	}

	if *showVer {
		fmt.Fprintf(stdout, "huffcodec %s\n", version)
		return exitOK
	}
	if *showExample {
		if err := config.WriteExample(stdout); err != nil {
			logger.Printf("%s %v", config.System, err)
			return exitFailure
		}
		return exitOK
	}

	if fs.NArg() != 3 {
		usage(fs, stderr)
		return exitUsage
	}

	c := &cli{cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}
	if cfg.Verbose && cfg.FileLoaded {
		c.logf(config.System, "loaded configuration from %s", cfg.File)
	}

	op, input, output := fs.Arg(0), fs.Arg(1), fs.Arg(2)
	switch op {
	case "compress":
		err = c.compress(input, output)
		if err != nil {
			logger.Printf("%s %v", config.Compress, err)
		}
	case "decompress":
		err = c.decompress(input, output)
		if err != nil {
			logger.Printf("%s %v", config.Decompress, err)
		}
	default:
		logger.Printf("%s unknown operation %q, expected \"compress\" or \"decompress\"", config.System, op)
		usage(fs, stderr)
		return exitUsage
	}
	if err != nil {
		return exitFailure
	}
	return exitOK
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: huffcodec [options] compress|decompress <input> <output>\n\n")
	fmt.Fprintf(w, "Compress or decompress a file with a byte-oriented Huffman code.\n\n")
	fmt.Fprintf(w, "Use '-' as <input> for stdin, or as <output> for stdout.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}

func (c *cli) logf(prefix string, format string, v ...interface{}) {
	if c.cfg.Verbose {
		c.logger.Printf(prefix+" "+format, v...)
	}
}

func (c *cli) compress(input, output string) error {
	if err := checkDistinct(input, output); err != nil {
		return err
	}

	src, err := c.openSeekableInput(input)
	if err != nil {
		return err
	}
	defer src.Close()

	if c.cfg.Debug.DumpTree || c.cfg.Debug.DumpCodes {
		if err := c.dumpEncoder(src); err != nil {
			return err
		}
	}

	out, err := c.createOutput(output)
	if err != nil {
		return err
	}

	c.logf(config.Compress, "compressing %s to %s", input, output)
	bw := bufio.NewWriterSize(out, int(c.cfg.BufferSize))
	stats, err := huffcodec.CompressTo(bw, src)
	if err == nil {
		err = bw.Flush()
	}
	if err = out.finish(err); err != nil {
		return err
	}

	c.logf(config.Compress, "wrote %d header bytes and %d payload bytes", stats.HeaderBytes, stats.PayloadBytes())
	if c.cfg.Stats {
		c.logger.Printf("%s %s", config.Compress, stats)
	}
	return nil
}

func (c *cli) decompress(input, output string) error {
	if err := checkDistinct(input, output); err != nil {
		return err
	}

	in, err := c.openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	br := bufio.NewReaderSize(in, int(c.cfg.BufferSize))
	freq, err := huffcodec.ReadHeader(br)
	if err != nil {
		return err
	}

	var d huffcodec.Decoder
	if err := d.Init(&freq); err != nil {
		return err
	}
	c.logf(config.Decompress, "header declares %d symbols, %d bytes of output", freq.Len(), d.Total())

	if c.cfg.Debug.DumpCodes {
		if _, err := freq.Dump(c.stderr); err != nil {
			return err
		}
	}
	if c.cfg.Debug.DumpTree {
		if _, err := d.Dump(c.stderr); err != nil {
			return err
		}
	}

	out, err := c.createOutput(output)
	if err != nil {
		return err
	}

	c.logf(config.Decompress, "decompressing %s to %s", input, output)
	bw := bufio.NewWriterSize(out, int(c.cfg.BufferSize))
	n, err := d.DecodeTo(bw, huffcodec.NewBitReader(br))
	if err == nil {
		err = bw.Flush()
	}
	if err = out.finish(err); err != nil {
		return err
	}

	c.logf(config.Decompress, "wrote %d bytes", n)
	if c.cfg.Stats {
		c.logger.Printf("%s %d symbols, %d bytes", config.Decompress, freq.Len(), n)
	}
	return nil
}

func (c *cli) dumpEncoder(src io.ReadSeeker) error {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	var freq huffcodec.FrequencyTable
	if _, err := freq.ReadFrom(src); err != nil {
		return err
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return err
	}

	var e huffcodec.Encoder
	if err := e.Init(&freq); err != nil {
		return err
	}
	if c.cfg.Debug.DumpCodes {
		if _, err := freq.Dump(c.stderr); err != nil {
			return err
		}
		if _, err := e.Codes().Dump(c.stderr); err != nil {
			return err
		}
	}
	if c.cfg.Debug.DumpTree {
		if _, err := e.Tree().Dump(c.stderr); err != nil {
			return err
		}
	}
	return nil
}

type readSeekCloser interface {
	io.ReadSeeker
	io.Closer
}

type memInput struct {
	*bytes.Reader
}

func (memInput) Close() error { return nil }

func (c *cli) openSeekableInput(path string) (readSeekCloser, error) {
	if path == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return memInput{bytes.NewReader(data)}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (c *cli) openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(c.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// checkDistinct refuses an output that names the input file, which would be
// truncated before it is read and then removed when the run fails.
func checkDistinct(input, output string) error {
	if input == "-" || output == "-" {
		return nil
	}
	inInfo, err := os.Stat(input)
	if err != nil {
		return err
	}
	outInfo, err := os.Stat(output)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("input %s and output %s are the same file", input, output)
	}
	return nil
}

// output is the destination of one run.  A file output is removed if the run
// fails, since a partial stream is not a valid artifact.
type output struct {
	io.Writer
	file *os.File
}

func (c *cli) createOutput(path string) (*output, error) {
	if path == "-" {
		return &output{Writer: c.stdout}, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !c.cfg.Force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o666)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s already exists, use -force to overwrite", path)
		}
		return nil, err
	}
	return &output{Writer: f, file: f}, nil
}

func (out *output) finish(err error) error {
	if out.file == nil {
		return err
	}
	if closeErr := out.file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(out.file.Name())
	}
	return err
}
