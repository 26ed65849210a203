package cli

import (
	"context"
	"fmt"
	"io"

	"promptui/page"
	"promptui/submitter"
)

// Submitter runs one prompt submission.
type Submitter interface {
	Submit(ctx context.Context, in submitter.Input, out submitter.Output) submitter.Result
}

// RunOnce submits prompt, prints the response to stdout and returns the
// process exit code. Failures go to stderr with exit code 1.
func RunOnce(ctx context.Context, s Submitter, prompt string, stdout, stderr io.Writer) int {
	doc := page.NewDocument()
	doc.Prompt.SetValue(prompt)
	res := s.Submit(ctx, doc.Prompt, doc.Response)
	if !res.OK() {
		fmt.Fprintf(stderr, "request failed (%s): %v\n", res.Kind, res.Err)
		return 1
	}
	fmt.Fprintln(stdout, doc.Response.Text())
	return 0
}
