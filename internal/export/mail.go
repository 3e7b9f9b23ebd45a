package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Mail defaults.
const (
	DefaultSubject = "CSV_EXPORT"
	DefaultBody    = "CSV attached."
)

// Mailer sends the export as a mail attachment through a sendmail-compatible
// program ("sendmail -t -i"). It is available when that program is on PATH.
type Mailer struct {
	To       string
	Subject  string
	Body     string
	Sendmail string // program name or path (default: sendmail)
}

func (m Mailer) Name() string { return "mail" }

func (m Mailer) program() string {
	if m.Sendmail == "" {
		return "sendmail"
	}
	return m.Sendmail
}

func (m Mailer) Available(context.Context) bool {
	_, err := exec.LookPath(m.program())
	return err == nil
}

func (m Mailer) Share(ctx context.Context, path string) error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("mail recipient is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	subject, body := m.Subject, m.Body
	if subject == "" {
		subject = DefaultSubject
	}
	if body == "" {
		body = DefaultBody
	}

	msg, err := BuildMessage(m.To, subject, body, filepath.Base(path), data)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, m.program(), "-t", "-i")
	cmd.Stdin = bytes.NewReader(msg)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if s := strings.TrimSpace(string(out)); s != "" {
			return fmt.Errorf("%s: %w: %s", m.program(), err, s)
		}
		return fmt.Errorf("%s: %w", m.program(), err)
	}
	return nil
}

// BuildMessage renders a multipart/mixed mail with a plain-text body and the
// CSV data attached as name.
func BuildMessage(to, subject, body, name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Message-ID: <%s@surveylog>\r\n", uuid.New().String())
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(body + "\r\n")); err != nil {
		return nil, err
	}

	att, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType("text/csv", map[string]string{"charset": "utf-8", "name": name})},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": name})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64Lines(att, data); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64Lines writes data base64-encoded in 76-column lines.
func writeBase64Lines(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 0 {
		n := min(76, len(enc))
		if _, err := w.Write([]byte(enc[:n] + "\r\n")); err != nil {
			return err
		}
		enc = enc[n:]
	}
	return nil
}
