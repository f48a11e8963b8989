package main

import (
	"fmt"
	"os"
	"path"

	"itsheet.com/itsheet/infrastructure/filesystem"
)

type ArchiveListCmd struct {
	Bucket string `help:"Report bucket." env:"REPORT_BUCKET" required:""`
	Prefix string `help:"Key prefix." default:"reports/"`
}

func (c *ArchiveListCmd) Run(ctx *Context) error {
	archive, err := filesystem.NewS3Archive(ctx.Background(), c.Bucket)
	if err != nil {
		return err
	}
	keys, err := archive.ListFiles(ctx.Background(), c.Prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

type ArchiveGetCmd struct {
	Bucket string `help:"Report bucket." env:"REPORT_BUCKET" required:""`
	Key    string `arg:"" help:"Object key, e.g. reports/timesheet_report_2024-01-01_to_2024-01-07.xlsx."`
	Out    string `help:"Output file, defaults to the key's base name." type:"path"`
}

func (c *ArchiveGetCmd) Run(ctx *Context) error {
	archive, err := filesystem.NewS3Archive(ctx.Background(), c.Bucket)
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = path.Base(c.Key)
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := archive.ReadFile(ctx.Background(), c.Key, file); err != nil {
		os.Remove(out)
		return err
	}
	fmt.Printf("Downloaded %s to %s\n", c.Key, out)
	return nil
}
