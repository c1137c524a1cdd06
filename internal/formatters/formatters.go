package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"careercrafter/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "UserList", &UserListTextFormatter{})
	registry.RegisterFormatter("markdown", "UserList", &UserListMarkdownFormatter{})
	registry.RegisterFormatter("text", "RequestList", &RequestListTextFormatter{})
	registry.RegisterFormatter("markdown", "RequestList", &RequestListMarkdownFormatter{})
	registry.RegisterFormatter("text", "ConnectionList", &ConnectionListTextFormatter{})
	registry.RegisterFormatter("markdown", "ConnectionList", &ConnectionListMarkdownFormatter{})
	registry.RegisterFormatter("text", "RankedJobList", &RankedJobTextFormatter{})
	registry.RegisterFormatter("markdown", "RankedJobList", &RankedJobMarkdownFormatter{})
	registry.RegisterFormatter("text", "Feed", &FeedTextFormatter{})
	registry.RegisterFormatter("markdown", "Feed", &FeedMarkdownFormatter{})
	registry.RegisterFormatter("text", "ActionResponse", &ActionTextFormatter{})
	registry.RegisterFormatter("markdown", "ActionResponse", &ActionMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case []types.User:
		return "UserList"
	case []types.ConnectionRequest:
		return "RequestList"
	case []types.Connection:
		return "ConnectionList"
	case []types.RankedJob:
		return "RankedJobList"
	case []types.FeedItem:
		return "Feed"
	case types.ActionResponse:
		return "ActionResponse"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func userLine(u types.User) string {
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	line := fmt.Sprintf("%s <%s>", name, u.Email)
	if u.Role != "" {
		line += " - " + u.Role
	}
	if u.IsPremium {
		line += " [premium]"
	}
	return line
}

// connectionLine renders the denormalized user snapshot a connection
// carries. Connections never expose an email.
func connectionLine(cu types.ConnectedUser) string {
	name := cu.FullName
	if name == "" {
		name = cu.Name
	}
	line := name
	if cu.Profession != "" {
		line += " - " + cu.Profession
	}
	if cu.Company != "" {
		line += " @ " + cu.Company
	}
	return line
}

// UserListTextFormatter handles text formatting for user lists
type UserListTextFormatter struct{}

func (ulf *UserListTextFormatter) Format(data any) (string, error) {
	users, ok := data.([]types.User)
	if !ok {
		return "", fmt.Errorf("expected []types.User, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== USERS ===\n\n")
	if len(users) == 0 {
		output.WriteString("No users found.\n")
		return output.String(), nil
	}

	for i, user := range users {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, userLine(user)))
		if len(user.Tags) > 0 {
			output.WriteString("   Skills: ")
			output.WriteString(strings.Join(user.Tags, ", "))
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (ulf *UserListTextFormatter) SupportedType() string {
	return "UserList"
}

// UserListMarkdownFormatter handles markdown formatting for user lists
type UserListMarkdownFormatter struct{}

func (ulmf *UserListMarkdownFormatter) Format(data any) (string, error) {
	users, ok := data.([]types.User)
	if !ok {
		return "", fmt.Errorf("expected []types.User, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Users\n\n")
	if len(users) == 0 {
		output.WriteString("No users found.\n")
		return output.String(), nil
	}

	for i, user := range users {
		output.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, userLine(user)))
		if len(user.Tags) > 0 {
			output.WriteString("   - Skills: ")
			output.WriteString(strings.Join(user.Tags, ", "))
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (ulmf *UserListMarkdownFormatter) SupportedType() string {
	return "UserList"
}

// RequestListTextFormatter handles text formatting for connection requests
type RequestListTextFormatter struct{}

func (rlf *RequestListTextFormatter) Format(data any) (string, error) {
	requests, ok := data.([]types.ConnectionRequest)
	if !ok {
		return "", fmt.Errorf("expected []types.ConnectionRequest, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CONNECTION REQUESTS ===\n\n")
	if len(requests) == 0 {
		output.WriteString("No requests found.\n")
		return output.String(), nil
	}

	for i, req := range requests {
		output.WriteString(fmt.Sprintf("%d. [%s] %s -> %s\n", i+1, req.ID, req.SenderEmail, req.ReceiverEmail))
		if req.SenderDetails.FullName != "" {
			output.WriteString("   From: ")
			output.WriteString(userLine(req.SenderDetails))
			output.WriteString("\n")
		}
		if req.Message != "" {
			output.WriteString("   Message: ")
			output.WriteString(req.Message)
			output.WriteString("\n")
		}
		if req.MutualConnections > 0 {
			output.WriteString(fmt.Sprintf("   Mutual connections: %d\n", req.MutualConnections))
		}
	}

	return output.String(), nil
}

func (rlf *RequestListTextFormatter) SupportedType() string {
	return "RequestList"
}

// RequestListMarkdownFormatter handles markdown formatting for connection requests
type RequestListMarkdownFormatter struct{}

func (rlmf *RequestListMarkdownFormatter) Format(data any) (string, error) {
	requests, ok := data.([]types.ConnectionRequest)
	if !ok {
		return "", fmt.Errorf("expected []types.ConnectionRequest, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Connection Requests\n\n")
	if len(requests) == 0 {
		output.WriteString("No requests found.\n")
		return output.String(), nil
	}

	for i, req := range requests {
		output.WriteString(fmt.Sprintf("%d. `%s` **%s** -> **%s**\n", i+1, req.ID, req.SenderEmail, req.ReceiverEmail))
		if req.Message != "" {
			output.WriteString("   - Message: ")
			output.WriteString(req.Message)
			output.WriteString("\n")
		}
		if req.MutualConnections > 0 {
			output.WriteString(fmt.Sprintf("   - Mutual connections: %d\n", req.MutualConnections))
		}
	}

	return output.String(), nil
}

func (rlmf *RequestListMarkdownFormatter) SupportedType() string {
	return "RequestList"
}

// ConnectionListTextFormatter handles text formatting for established connections
type ConnectionListTextFormatter struct{}

func (clf *ConnectionListTextFormatter) Format(data any) (string, error) {
	connections, ok := data.([]types.Connection)
	if !ok {
		return "", fmt.Errorf("expected []types.Connection, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CONNECTIONS ===\n\n")
	if len(connections) == 0 {
		output.WriteString("No connections found.\n")
		return output.String(), nil
	}

	for i, conn := range connections {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, conn.ID, connectionLine(conn.ConnectedUser)))
	}

	return output.String(), nil
}

func (clf *ConnectionListTextFormatter) SupportedType() string {
	return "ConnectionList"
}

// ConnectionListMarkdownFormatter handles markdown formatting for established connections
type ConnectionListMarkdownFormatter struct{}

func (clmf *ConnectionListMarkdownFormatter) Format(data any) (string, error) {
	connections, ok := data.([]types.Connection)
	if !ok {
		return "", fmt.Errorf("expected []types.Connection, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Connections\n\n")
	if len(connections) == 0 {
		output.WriteString("No connections found.\n")
		return output.String(), nil
	}

	for i, conn := range connections {
		output.WriteString(fmt.Sprintf("%d. `%s` **%s**\n", i+1, conn.ID, connectionLine(conn.ConnectedUser)))
	}

	return output.String(), nil
}

func (clmf *ConnectionListMarkdownFormatter) SupportedType() string {
	return "ConnectionList"
}

// RankedJobTextFormatter handles text formatting for job match results
type RankedJobTextFormatter struct{}

func (rjf *RankedJobTextFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.RankedJob)
	if !ok {
		return "", fmt.Errorf("expected []types.RankedJob, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TOP JOB MATCHES ===\n\n")
	if len(jobs) == 0 {
		output.WriteString("No matching jobs found.\n")
		return output.String(), nil
	}

	for i, ranked := range jobs {
		output.WriteString(fmt.Sprintf("%d. %s at %s\n", i+1, ranked.Job.Title, ranked.Job.Company))
		output.WriteString(fmt.Sprintf("   Match score: %.0f/100\n", ranked.Score))
		if ranked.Job.Location != "" {
			output.WriteString("   Location: ")
			output.WriteString(ranked.Job.Location)
			output.WriteString("\n")
		}
		if len(ranked.Job.RequiredSkills) > 0 {
			output.WriteString("   Required skills: ")
			output.WriteString(strings.Join(ranked.Job.RequiredSkills, ", "))
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("   Applications: %d\n\n", ranked.Job.Applications))
	}

	return output.String(), nil
}

func (rjf *RankedJobTextFormatter) SupportedType() string {
	return "RankedJobList"
}

// RankedJobMarkdownFormatter handles markdown formatting for job match results
type RankedJobMarkdownFormatter struct{}

func (rjmf *RankedJobMarkdownFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.RankedJob)
	if !ok {
		return "", fmt.Errorf("expected []types.RankedJob, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Top Job Matches\n\n")
	if len(jobs) == 0 {
		output.WriteString("No matching jobs found.\n")
		return output.String(), nil
	}

	for i, ranked := range jobs {
		output.WriteString(fmt.Sprintf("## %d. %s at %s\n\n", i+1, ranked.Job.Title, ranked.Job.Company))
		output.WriteString(fmt.Sprintf("**Match score:** %.0f/100\n\n", ranked.Score))
		if ranked.Job.Location != "" {
			output.WriteString("**Location:** ")
			output.WriteString(ranked.Job.Location)
			output.WriteString("\n\n")
		}
		if len(ranked.Job.RequiredSkills) > 0 {
			output.WriteString("**Required skills:** ")
			output.WriteString(strings.Join(ranked.Job.RequiredSkills, ", "))
			output.WriteString("\n\n")
		}
		output.WriteString(fmt.Sprintf("**Applications:** %d\n\n", ranked.Job.Applications))
	}

	return output.String(), nil
}

func (rjmf *RankedJobMarkdownFormatter) SupportedType() string {
	return "RankedJobList"
}

// FeedTextFormatter handles text formatting for assembled feeds
type FeedTextFormatter struct{}

func (ftf *FeedTextFormatter) Format(data any) (string, error) {
	items, ok := data.([]types.FeedItem)
	if !ok {
		return "", fmt.Errorf("expected []types.FeedItem, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FEED ===\n\n")
	if len(items) == 0 {
		output.WriteString("Feed is empty.\n")
		return output.String(), nil
	}

	for i, item := range items {
		switch item.Kind {
		case types.FeedItemJobPost:
			output.WriteString(fmt.Sprintf("%d. [job] %s at %s", i+1, item.Job.Title, item.Job.Company))
			if item.Job.Location != "" {
				output.WriteString(" (" + item.Job.Location + ")")
			}
			output.WriteString("\n")
		case types.FeedItemHiredPost:
			output.WriteString(fmt.Sprintf("%d. [hired] %s was hired as %s at %s\n",
				i+1, item.HiredPost.Author.FullName, item.HiredPost.Role, item.HiredPost.Company))
		default:
			output.WriteString(fmt.Sprintf("%d. [%s]\n", i+1, item.Kind))
		}
	}

	return output.String(), nil
}

func (ftf *FeedTextFormatter) SupportedType() string {
	return "Feed"
}

// FeedMarkdownFormatter handles markdown formatting for assembled feeds
type FeedMarkdownFormatter struct{}

func (fmf *FeedMarkdownFormatter) Format(data any) (string, error) {
	items, ok := data.([]types.FeedItem)
	if !ok {
		return "", fmt.Errorf("expected []types.FeedItem, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Feed\n\n")
	if len(items) == 0 {
		output.WriteString("Feed is empty.\n")
		return output.String(), nil
	}

	for i, item := range items {
		switch item.Kind {
		case types.FeedItemJobPost:
			output.WriteString(fmt.Sprintf("%d. **Job:** %s at %s\n", i+1, item.Job.Title, item.Job.Company))
		case types.FeedItemHiredPost:
			output.WriteString(fmt.Sprintf("%d. **Hired:** %s as %s at %s\n",
				i+1, item.HiredPost.Author.FullName, item.HiredPost.Role, item.HiredPost.Company))
		default:
			output.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, item.Kind))
		}
	}

	return output.String(), nil
}

func (fmf *FeedMarkdownFormatter) SupportedType() string {
	return "Feed"
}

// ActionTextFormatter handles text formatting for action outcomes
type ActionTextFormatter struct{}

func (atf *ActionTextFormatter) Format(data any) (string, error) {
	resp, ok := data.(types.ActionResponse)
	if !ok {
		return "", fmt.Errorf("expected types.ActionResponse, got %T", data)
	}

	if resp.Success {
		if resp.Message != "" {
			return "OK: " + resp.Message + "\n", nil
		}
		return "OK\n", nil
	}
	if resp.Message != "" {
		return "FAILED: " + resp.Message + "\n", nil
	}
	return "FAILED\n", nil
}

func (atf *ActionTextFormatter) SupportedType() string {
	return "ActionResponse"
}

// ActionMarkdownFormatter handles markdown formatting for action outcomes
type ActionMarkdownFormatter struct{}

func (amf *ActionMarkdownFormatter) Format(data any) (string, error) {
	resp, ok := data.(types.ActionResponse)
	if !ok {
		return "", fmt.Errorf("expected types.ActionResponse, got %T", data)
	}

	status := "**Success**"
	if !resp.Success {
		status = "**Failed**"
	}
	if resp.Message != "" {
		return status + ": " + resp.Message + "\n", nil
	}
	return status + "\n", nil
}

func (amf *ActionMarkdownFormatter) SupportedType() string {
	return "ActionResponse"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
