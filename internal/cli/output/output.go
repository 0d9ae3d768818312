package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
)

// Stdout is where all command output goes.
var Stdout io.Writer = os.Stdout

// JSON prints v as indented JSON.
func JSON(v interface{}) {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// FileTable prints a slice of files as a human-readable table.
func FileTable(files []api.File) {
	if len(files) == 0 {
		fmt.Fprintln(Stdout, "No files found.")
		return
	}

	w := tabwriter.NewWriter(Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tTYPE\tSHARED\tMODIFIED")

	for _, f := range files {
		shared := "-"
		if f.IsPublic {
			shared = "public"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Filename, FormatSize(f.Size), shortMIME(f.MimeType), shared, RelativeTime(f.UpdatedAt))
	}
	w.Flush()
}

func FileDetail(f api.File) {
	w := tabwriter.NewWriter(Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", f.Filename)
	fmt.Fprintf(w, "ID:\t%s\n", f.ID)
	fmt.Fprintf(w, "Type:\t%s\n", f.MimeType)
	fmt.Fprintf(w, "Size:\t%s\n", FormatSize(f.Size))
	fmt.Fprintf(w, "Public:\t%v\n", f.IsPublic)
	if f.SharedToken != nil {
		fmt.Fprintf(w, "Share Token:\t%s\n", *f.SharedToken)
	}
	fmt.Fprintf(w, "Created:\t%s\n", f.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Modified:\t%s\n", f.UpdatedAt.Format(time.RFC3339))
	w.Flush()
}

func SharedFileDetail(f api.SharedFile) {
	w := tabwriter.NewWriter(Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", f.Filename)
	fmt.Fprintf(w, "Type:\t%s\n", f.MimeType)
	fmt.Fprintf(w, "Size:\t%s\n", FormatSize(f.Size))
	fmt.Fprintf(w, "URL:\t%s\n", f.URL)
	fmt.Fprintf(w, "Expires In:\t%ds\n", f.ExpiresIn)
	w.Flush()
}

func UserInfo(u api.User) {
	w := tabwriter.NewWriter(Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	fmt.Fprintf(w, "Name:\t%s\n", u.Name)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	w.Flush()
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// RelativeTime formats a timestamp relative to now (e.g. "2h ago", "3d ago").
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// "application/pdf" -> "pdf"; vendor types keep their last dotted segment.
func shortMIME(mime string) string {
	if mime == "" {
		return "-"
	}
	parts := strings.Split(mime, "/")
	if len(parts) != 2 {
		return mime
	}
	s := parts[1]
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}
