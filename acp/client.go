package acp

type (
	// InitializeRequest opens the connection and negotiates capabilities.
	InitializeRequest struct {
		ID                 RequestID
		ProtocolVersion    int
		ClientCapabilities ClientCapabilities
		ClientInfo         *Implementation
	}

	// AuthenticateRequest selects one of the agent's advertised auth methods.
	AuthenticateRequest struct {
		ID       RequestID
		MethodID string
	}

	// SessionNewRequest asks the agent to create a fresh session.
	SessionNewRequest struct {
		ID         RequestID
		Cwd        string
		McpServers []McpServer
	}

	// SessionLoadRequest asks the agent to reload a previously created session.
	SessionLoadRequest struct {
		ID         RequestID
		SessionID  SessionID
		Cwd        string
		McpServers []McpServer
	}

	// SessionPromptRequest starts a prompt turn.
	SessionPromptRequest struct {
		ID        RequestID
		SessionID SessionID
		Prompt    []ContentBlock
	}

	// SessionCancelNotification asks the agent to stop the in-flight turn.
	// Cancellation is a notification: the turn still ends with the matching
	// prompt result or error.
	SessionCancelNotification struct {
		SessionID SessionID
	}

	// SessionSetModeRequest switches the session's operating mode.
	SessionSetModeRequest struct {
		ID        RequestID
		SessionID SessionID
		ModeID    string
	}

	// FsReadResult answers an agent fs/read_text_file request.
	FsReadResult struct {
		ID        RequestID
		SessionID SessionID
		Content   string
	}

	// FsWriteResult answers an agent fs/write_text_file request.
	FsWriteResult struct {
		ID        RequestID
		SessionID SessionID
	}

	// PermissionResult answers a session/request_permission request.
	PermissionResult struct {
		ID        RequestID
		SessionID SessionID
		Outcome   PermissionOutcome
	}

	// TerminalCreateResult answers a terminal/create request.
	TerminalCreateResult struct {
		ID         RequestID
		SessionID  SessionID
		TerminalID string
	}

	// TerminalOutputResult answers a terminal/output request.
	TerminalOutputResult struct {
		ID         RequestID
		SessionID  SessionID
		Output     string
		Truncated  bool
		ExitStatus *TerminalExitStatus
	}

	// TerminalWaitResult answers a terminal/wait_for_exit request.
	TerminalWaitResult struct {
		ID         RequestID
		SessionID  SessionID
		ExitStatus TerminalExitStatus
	}

	// TerminalKillResult answers a terminal/kill request.
	TerminalKillResult struct {
		ID        RequestID
		SessionID SessionID
	}

	// TerminalReleaseResult answers a terminal/release request.
	TerminalReleaseResult struct {
		ID        RequestID
		SessionID SessionID
	}
)

func (*InitializeRequest) Direction() Direction         { return ClientToAgent }
func (*AuthenticateRequest) Direction() Direction       { return ClientToAgent }
func (*SessionNewRequest) Direction() Direction         { return ClientToAgent }
func (*SessionLoadRequest) Direction() Direction        { return ClientToAgent }
func (*SessionPromptRequest) Direction() Direction      { return ClientToAgent }
func (*SessionCancelNotification) Direction() Direction { return ClientToAgent }
func (*SessionSetModeRequest) Direction() Direction     { return ClientToAgent }
func (*FsReadResult) Direction() Direction              { return ClientToAgent }
func (*FsWriteResult) Direction() Direction             { return ClientToAgent }
func (*PermissionResult) Direction() Direction          { return ClientToAgent }
func (*TerminalCreateResult) Direction() Direction      { return ClientToAgent }
func (*TerminalOutputResult) Direction() Direction      { return ClientToAgent }
func (*TerminalWaitResult) Direction() Direction        { return ClientToAgent }
func (*TerminalKillResult) Direction() Direction        { return ClientToAgent }
func (*TerminalReleaseResult) Direction() Direction     { return ClientToAgent }

func (*InitializeRequest) Method() string         { return MethodInitialize }
func (*AuthenticateRequest) Method() string       { return MethodAuthenticate }
func (*SessionNewRequest) Method() string         { return MethodSessionNew }
func (*SessionLoadRequest) Method() string        { return MethodSessionLoad }
func (*SessionPromptRequest) Method() string      { return MethodSessionPrompt }
func (*SessionCancelNotification) Method() string { return MethodSessionCancel }
func (*SessionSetModeRequest) Method() string     { return MethodSessionSetMode }
func (*FsReadResult) Method() string              { return MethodFsReadTextFile }
func (*FsWriteResult) Method() string             { return MethodFsWriteTextFile }
func (*PermissionResult) Method() string          { return MethodSessionRequestPermission }
func (*TerminalCreateResult) Method() string      { return MethodTerminalCreate }
func (*TerminalOutputResult) Method() string      { return MethodTerminalOutput }
func (*TerminalWaitResult) Method() string        { return MethodTerminalWaitForExit }
func (*TerminalKillResult) Method() string        { return MethodTerminalKill }
func (*TerminalReleaseResult) Method() string     { return MethodTerminalRelease }

func (m *SessionLoadRequest) Session() SessionID        { return m.SessionID }
func (m *SessionPromptRequest) Session() SessionID      { return m.SessionID }
func (m *SessionCancelNotification) Session() SessionID { return m.SessionID }
func (m *SessionSetModeRequest) Session() SessionID     { return m.SessionID }
func (m *FsReadResult) Session() SessionID              { return m.SessionID }
func (m *FsWriteResult) Session() SessionID             { return m.SessionID }
func (m *PermissionResult) Session() SessionID          { return m.SessionID }
func (m *TerminalCreateResult) Session() SessionID      { return m.SessionID }
func (m *TerminalOutputResult) Session() SessionID      { return m.SessionID }
func (m *TerminalWaitResult) Session() SessionID        { return m.SessionID }
func (m *TerminalKillResult) Session() SessionID        { return m.SessionID }
func (m *TerminalReleaseResult) Session() SessionID     { return m.SessionID }

func (*InitializeRequest) acpMessage()         {}
func (*AuthenticateRequest) acpMessage()       {}
func (*SessionNewRequest) acpMessage()         {}
func (*SessionLoadRequest) acpMessage()        {}
func (*SessionPromptRequest) acpMessage()      {}
func (*SessionCancelNotification) acpMessage() {}
func (*SessionSetModeRequest) acpMessage()     {}
func (*FsReadResult) acpMessage()              {}
func (*FsWriteResult) acpMessage()             {}
func (*PermissionResult) acpMessage()          {}
func (*TerminalCreateResult) acpMessage()      {}
func (*TerminalOutputResult) acpMessage()      {}
func (*TerminalWaitResult) acpMessage()        {}
func (*TerminalKillResult) acpMessage()        {}
func (*TerminalReleaseResult) acpMessage()     {}
