package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/lszeremeta/sesame-rio-api/pipeline"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

func (a *app) runConvert(_ *cobra.Command, args []string) (err error) {
	inPath, outPath := args[0], args[1]
	if a.cfg.Convert.MetricsOut != "" {
		defer func() {
			if merr := writeMetricsFile(a.cfg.Convert.MetricsOut); merr != nil && err == nil {
				err = merr
			}
		}()
	}

	fallback, err := a.cfg.DefaultFormat()
	if err != nil {
		return err
	}
	inName, inGzip := stripGzip(inPath)
	outName, outGzip := stripGzip(outPath)
	in, _ := pipeline.ParserFormatForFileName(inName, fallback)
	out, _ := pipeline.WriterFormatForFileName(outName, fallback)

	base := a.cfg.Convert.BaseURI
	if base == "" {
		base = "file:" + filepath.ToSlash(inPath)
	}

	parserCfg := rio.NewParserConfig()
	rio.Set(parserCfg, rio.BasicParserSettings.PreserveBNodeIDs, a.cfg.Convert.PreserveBNodeIDs)
	parserCfg.AddNonFatalKeys(a.cfg.Convert.NonFatal...)
	writerCfg := rio.NewWriterConfig()
	rio.Set(writerCfg, rio.BasicWriterSettings.PrettyPrint, a.cfg.Convert.Pretty)

	r, closeIn, err := openInput(inPath, inGzip)
	if err != nil {
		return err
	}
	defer closeIn()
	w, closeOut, err := createOutput(outPath, outGzip)
	if err != nil {
		return err
	}

	a.log.Debug().
		Str("input", inPath).
		Str("input_format", in.Name()).
		Str("output", outPath).
		Str("output_format", out.Name()).
		Str("base_uri", base).
		Msg("converting")

	convErr := pipeline.Convert(r, base, in, w, out,
		pipeline.WithConvertParserConfig(parserCfg),
		pipeline.WithConvertWriterConfig(writerCfg),
		pipeline.WithConvertErrorListener(rio.NewParseErrorLogger(&a.log)),
	)
	if cerr := closeOut(); cerr != nil && convErr == nil {
		convErr = fmt.Errorf("failed to close %s: %w", outPath, cerr)
	}
	if convErr != nil {
		return fmt.Errorf("convert %s to %s: %w", inPath, outPath, convErr)
	}
	a.log.Info().Str("input", inPath).Str("output", outPath).Msg("converted")
	return nil
}

// stripGzip reports whether path ends in .gz and returns it without the suffix.
func stripGzip(path string) (string, bool) {
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		return path[:len(path)-len(".gz")], true
	}
	return path, false
}

func openInput(path string, compressed bool) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !compressed {
		return f, func() { _ = f.Close() }, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
	}
	return zr, func() {
		_ = zr.Close()
		_ = f.Close()
	}, nil
}

func createOutput(path string, compressed bool) (io.Writer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	if !compressed {
		return f, f.Close, nil
	}
	zw := gzip.NewWriter(f)
	return zw, func() error {
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}, nil
}

func writeMetricsFile(path string) error {
	families, err := pipeline.MetricsGatherer().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeMetrics(f, families); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
