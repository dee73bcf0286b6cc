package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/pdfexport"
)

func newExtractCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text of a PDF, DOCX or text resume page by page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := extractFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d page(s)\n", res.PageCount)
			for i, page := range res.Pages {
				fmt.Fprintf(out, "\n--- Page %d ---\n%s\n", i+1, page)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the extraction result as JSON")
	return cmd
}

func newParseCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Turn a resume file into profile JSON using the LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			res, err := extractFile(ctx, args[0])
			if err != nil {
				return err
			}
			svc, err := opts.buildServices(ctx)
			if err != nil {
				return err
			}
			p, err := svc.analyses.ParseResumeText(ctx, cliUser, res.Text)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := writeJSON(&buf, p); err != nil {
				return err
			}
			return writeOutput(cmd, out, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write profile JSON to this file")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	var jd string
	cmd := &cobra.Command{
		Use:   "compare <profile.json>",
		Short: "Score a profile against a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			p, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			jobDescription, err := readText(jd, "--jd")
			if err != nil {
				return err
			}
			svc, err := opts.buildServices(ctx)
			if err != nil {
				return err
			}
			result, err := svc.analyses.CompareToJob(ctx, cliUser, p, jobDescription)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&jd, "jd", "", "job description file, or - for stdin")
	return cmd
}

func newTailorCmd(opts *options) *cobra.Command {
	var jd, out string
	cmd := &cobra.Command{
		Use:   "tailor <profile.json>",
		Short: "Rewrite a profile for a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			p, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			jobDescription, err := readText(jd, "--jd")
			if err != nil {
				return err
			}
			svc, err := opts.buildServices(ctx)
			if err != nil {
				return err
			}
			tailored, err := svc.analyses.TailorToJob(ctx, cliUser, p, jobDescription)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := writeJSON(&buf, tailored); err != nil {
				return err
			}
			return writeOutput(cmd, out, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&jd, "jd", "", "job description file, or - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the tailored profile to this file")
	return cmd
}

func newCoverLetterCmd(opts *options) *cobra.Command {
	var jd, company, out string
	cmd := &cobra.Command{
		Use:   "cover-letter <profile.json>",
		Short: "Write a cover letter for a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			p, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			jobDescription, err := readText(jd, "--jd")
			if err != nil {
				return err
			}
			svc, err := opts.buildServices(ctx)
			if err != nil {
				return err
			}
			letter, err := svc.coverLetters.Generate(ctx, cliUser, p, jobDescription, company)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, []byte(letter+"\n"))
		},
	}
	cmd.Flags().StringVar(&jd, "jd", "", "job description file, or - for stdin")
	cmd.Flags().StringVar(&company, "company", "", "company name to address")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the letter to this file")
	return cmd
}

func newPDFCmd() *cobra.Command {
	var out, chromePath, letterPath, jobTitle string
	var htmlOnly bool
	cmd := &cobra.Command{
		Use:   "pdf <profile.json>",
		Short: "Render a profile, or a cover letter with --letter, to PDF using headless Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(args[0])
			if err != nil {
				return err
			}
			if htmlOnly {
				html, err := pdfexport.RenderResumeHTML(p)
				if err != nil {
					return err
				}
				return writeOutput(cmd, out, html)
			}

			svc := &pdfexport.Service{Printer: pdfexport.NewChromePrinter(chromePath, 0)}
			var file pdfexport.File
			if letterPath != "" {
				letter, rerr := readText(letterPath, "--letter")
				if rerr != nil {
					return rerr
				}
				file, err = svc.CoverLetterPDF(cmd.Context(), cliUser, letter)
			} else {
				file, err = svc.ResumePDF(cmd.Context(), cliUser, p, jobTitle)
			}
			if err != nil {
				return err
			}
			if out == "" {
				out = file.Name
			}
			if !strings.HasSuffix(strings.ToLower(out), ".pdf") && out != "-" {
				out += ".pdf"
			}
			return writeOutput(cmd, out, file.Data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path; defaults to <Name>_<JobTitle>_Resume.pdf")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "job title to put in the default file name")
	cmd.Flags().StringVar(&chromePath, "chrome", "", "Chrome or Chromium executable")
	cmd.Flags().StringVar(&letterPath, "letter", "", "render this cover letter text file instead of the resume")
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "write the resume HTML instead of printing it")
	return cmd
}
