package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
)

type Config struct {
	File           string
	Operation      string
	Thumbnail      string
	ThumbnailWidth int
}

var config Config

func init() {
	const (
		fileUsage      = "path to the HEIC file (required)"
		operationUsage = "data to print: All, Image Dimensions, Date, Camera Info or GPS Info"
	)
	flag.StringVar(&config.File, "file", "", fileUsage)
	flag.StringVar(&config.File, "f", "", fileUsage+" (shorthand)")
	flag.StringVar(&config.Operation, "operation", OpAll.String(), operationUsage)
	flag.StringVar(&config.Operation, "o", OpAll.String(), operationUsage+" (shorthand)")
	flag.StringVar(&config.Thumbnail, "thumbnail", "", "write a JPEG thumbnail of the primary image to this path")
	flag.IntVar(&config.ThumbnailWidth, "thumbnail-width", 320, "thumbnail width in pixels")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --file <PATH> [options]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Print the EXIF metadata and image properties of a HEIC file.\n\n")
		flag.PrintDefaults()
	}
}

func validateConfig(cfg Config) (Operation, error) {
	if cfg.File == "" {
		return OpAll, errors.Wrap(ErrInvalidPath, "--file is required")
	}
	if cfg.Thumbnail != "" && cfg.ThumbnailWidth <= 0 {
		return OpAll, errors.New("--thumbnail-width must be greater than 0")
	}
	return ParseOperation(cfg.Operation)
}

func run(w io.Writer, cfg Config, op Operation) error {
	c, err := OpenContainer(cfg.File)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := Report(w, c, op); err != nil {
		return err
	}

	if cfg.Thumbnail != "" {
		h, err := c.PrimaryImage()
		if err != nil {
			return err
		}
		r, err := WriteThumbnail(c, h, cfg.Thumbnail, cfg.ThumbnailWidth)
		if err != nil {
			return errors.Wrapf(err, "thumbnail %s", cfg.Thumbnail)
		}
		fmt.Fprintf(w, "Thumbnail written: %s (%dx%d)\n", cfg.Thumbnail, r.Dx(), r.Dy())
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	op, err := validateConfig(config)
	if err != nil {
		log.Print(err)
		flag.Usage()
		os.Exit(2)
	}

	if err := run(os.Stdout, config, op); err != nil {
		log.Fatal(err)
	}
}
