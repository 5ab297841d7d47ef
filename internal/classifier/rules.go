package classifier

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
}

// loginHostPrefixes mark hosts that front a sign-in wall.
var loginHostPrefixes = []string{"login.", "signin.", "sso.", "auth.", "accounts.", "portal.", "intranet."}

// RuleClassifier applies the link rubric deterministically. It is used
// when no model is configured and as a reference in tests.
type RuleClassifier struct{}

// NewRuleClassifier returns a RuleClassifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify judges resumeLink by host and path shape.
func (r *RuleClassifier) Classify(ctx context.Context, resumeLink, companyName string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, &ClassificationError{Message: "classification cancelled", Cause: err}
	}
	u, err := parseLink(resumeLink)
	if err != nil {
		return Result{}, err
	}
	return judge(u, companyName), nil
}

func judge(u *url.URL, companyName string) Result {
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	p := u.EscapedPath()
	lowerPath := strings.ToLower(p)

	for _, prefix := range loginHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			return invalid("This link points to a sign-in or portal page, so a recruiter would have to log in before seeing the file. Share a publicly accessible, direct link to the resume document.")
		}
	}

	switch {
	case strings.Contains(lowerPath, "/drive/folders/"),
		host == "drive.google.com" && (strings.Contains(lowerPath, "/folders/") || strings.HasPrefix(lowerPath, "/folderview")):
		return invalid("This link points to a Google Drive folder, not a direct file. Share a direct link to the resume document itself.")
	case strings.Contains(p, "/:f:/"):
		return invalid("This OneDrive link opens a folder, not a direct file. Share the resume file itself with anyone who has the link.")
	case host == "dropbox.com" && strings.HasPrefix(lowerPath, "/home"):
		return invalid("This Dropbox link opens your Dropbox home folder, which needs a login. Create a shared link to the resume file instead.")
	case strings.HasSuffix(strings.TrimSuffix(lowerPath, "/"), "/edit"):
		return invalid("This looks like an edit link, which usually requires the recipient to sign in. Share a view-only link that anyone with the link can open.")
	}

	if documentExtensions[strings.ToLower(path.Ext(u.Path))] {
		return valid(companyName, "The link points directly to a document file.")
	}

	switch {
	case host == "drive.google.com" && strings.HasPrefix(lowerPath, "/file/d/"):
		return valid(companyName, "This is a shareable Google Drive file link. Make sure sharing is set to anyone with the link.")
	case host == "docs.google.com" && strings.HasPrefix(lowerPath, "/document/d/") &&
		(strings.HasSuffix(lowerPath, "/view") || strings.HasSuffix(lowerPath, "/pub")):
		return valid(companyName, "This is a view-only Google Docs link, which recruiters can open directly.")
	case host == "dropbox.com" && (strings.HasPrefix(lowerPath, "/s/") || strings.HasPrefix(lowerPath, "/scl/fi/")):
		return valid(companyName, "This is a shared Dropbox file link.")
	case host == "1drv.ms", strings.Contains(p, "/:b:/"), strings.Contains(p, "/:w:/"):
		return valid(companyName, "This is a shared OneDrive file link.")
	}

	return invalid("This link does not look like a direct file or a shareable single-file link, so a recruiter may land on a page instead of the resume. Link directly to the PDF or Word document.")
}

func valid(companyName, tips string) Result {
	if companyName = strings.TrimSpace(companyName); companyName != "" {
		tips = fmt.Sprintf("%s Tailor the resume to the role at %s before applying.", tips, companyName)
	}
	return Result{IsValid: true, Tips: tips}
}

func invalid(tips string) Result {
	return Result{IsValid: false, Tips: tips}
}
