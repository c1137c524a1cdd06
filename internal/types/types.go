package types

// User is a cached copy of a backend user record. The client never
// mutates users; it only caches and displays them.
type User struct {
	ID           string   `json:"_id"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Role         string   `json:"role,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	PlanName     string   `json:"planName,omitempty"`
	IsPremium    bool     `json:"isPremium,omitempty"`
}

// ConnectionRequest is a directed request from SenderEmail to
// ReceiverEmail. It stays pending until exactly one terminal
// disposition (accepted, ignored or withdrawn) removes it.
type ConnectionRequest struct {
	ID                string `json:"_id"`
	SenderEmail       string `json:"senderEmail"`
	ReceiverEmail     string `json:"receiverEmail"`
	SenderDetails     User   `json:"senderDetails"`
	Message           string `json:"message,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	MutualConnections int    `json:"mutualConnections,omitempty"`
}

// ConnectedUser is the denormalized snapshot carried by a Connection.
type ConnectedUser struct {
	Name       string `json:"name,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	Profession string `json:"profession,omitempty"`
	Company    string `json:"company,omitempty"`
}

// Connection is an established, undirected relationship. It is created
// server-side as a side effect of an accept; the client only learns of
// it through a later fetch of the connections collection.
type Connection struct {
	ID            string        `json:"_id"`
	ConnectedUser ConnectedUser `json:"connectedUser"`
}

// Job carries the fields the matching core cares about. Everything
// else about a posting is opaque to this client.
type Job struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title,omitempty"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location,omitempty"`
	RequiredSkills []string `json:"requiredSkills"`
	Applications   int      `json:"applications,omitempty"`
	PostedBy       User     `json:"postedBy"`
}

// HiredPost is a user's "I got hired" update shown in the home feed.
type HiredPost struct {
	ID        string `json:"_id"`
	Author    User   `json:"author"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Feed item discriminants.
const (
	FeedItemJobPost   = "job_post"
	FeedItemHiredPost = "hired_post"
)

// FeedItem is a discriminated-union element of the home feed: exactly
// one of Job or HiredPost is set, according to Kind.
type FeedItem struct {
	Kind      string     `json:"type"`
	Job       *Job       `json:"job,omitempty"`
	HiredPost *HiredPost `json:"hiredPost,omitempty"`
}

// RankedJob pairs a job with its match score for the top-jobs view.
type RankedJob struct {
	Job   Job     `json:"job"`
	Score float64 `json:"score"`
}

// ActionResponse is the uniform envelope the backend returns for every
// mutating network call.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
