package main

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/patrickhuang888/orcarrow/orc"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
)

func dumpCommand() *cobra.Command {
	var path string
	var only []int
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print rows of the stripes of a job as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := LoadJob(path)
			if err != nil {
				return err
			}
			return dump(cmd, job, only)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "job file")
	cmd.Flags().IntSliceVar(&only, "stripe", nil, "indexes of the stripes to dump, all when not set")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func dump(cmd *cobra.Command, job *Job, only []int) error {
	file, err := job.File()
	if err != nil {
		return err
	}
	td, schema, err := job.Type()
	if err != nil {
		return err
	}
	opts, err := job.ReaderOptions()
	if err != nil {
		return err
	}

	var src orcio.AsyncChunkReader
	if job.Path != "" {
		f, err := orcio.Open(job.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		src = orcio.SyncToAsync(f)
	} else {
		if src, err = orcio.OpenMinio(*job.Minio); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, s := range job.Stripes {
		if !selected(only, s.Index) {
			continue
		}
		logger.Infof("stripe %d, offset %d, %d rows", s.Index, s.Offset, s.Rows)
		records, err := orc.ReadStripeAsync(cmd.Context(), src, file, td, schema, s.Index, s.Metadata(), &opts)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err == nil {
				err = errors.WithStack(array.RecordToJSON(rec, out))
			}
			rec.Release()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func selected(only []int, index int) bool {
	if len(only) == 0 {
		return true
	}
	for _, i := range only {
		if i == index {
			return true
		}
	}
	return false
}
