package acp

type (
	// InitializeResult completes the initialize handshake.
	InitializeResult struct {
		ID                RequestID
		ProtocolVersion   int
		AgentCapabilities AgentCapabilities
		AuthMethods       []AuthMethod
		AgentInfo         *Implementation
	}

	// AuthenticateResult acknowledges a successful authenticate request.
	AuthenticateResult struct {
		ID RequestID
	}

	// SessionNewResult announces the id of a freshly created session, and
	// optionally its mode state.
	SessionNewResult struct {
		ID        RequestID
		SessionID SessionID
		Modes     *ModeState
	}

	// SessionLoadResult acknowledges a session/load request. The session id is
	// reattached from the correlated request.
	SessionLoadResult struct {
		ID        RequestID
		SessionID SessionID
		Modes     *ModeState
	}

	// SessionPromptResult ends a prompt turn with a stop reason.
	SessionPromptResult struct {
		ID         RequestID
		SessionID  SessionID
		StopReason StopReason
	}

	// SessionSetModeResult acknowledges a mode switch.
	SessionSetModeResult struct {
		ID        RequestID
		SessionID SessionID
	}

	// SessionUpdateNotification streams progress for an in-flight turn.
	SessionUpdateNotification struct {
		SessionID SessionID
		Update    SessionUpdate
	}

	// FsReadRequest asks the client to read a text file.
	FsReadRequest struct {
		ID        RequestID
		SessionID SessionID
		Path      string
		Line      *int
		Limit     *int
	}

	// FsWriteRequest asks the client to write a text file.
	FsWriteRequest struct {
		ID        RequestID
		SessionID SessionID
		Path      string
		Content   string
	}

	// PermissionRequest asks the user to allow or deny a tool call.
	PermissionRequest struct {
		ID        RequestID
		SessionID SessionID
		ToolCall  ToolCallRef
		Options   []PermissionOption
	}

	// TerminalCreateRequest asks the client to spawn a terminal command.
	TerminalCreateRequest struct {
		ID        RequestID
		SessionID SessionID
		Command   string
		Args      []string
		Cwd       string
	}

	// TerminalOutputRequest asks for the current output of a terminal.
	TerminalOutputRequest struct {
		ID         RequestID
		SessionID  SessionID
		TerminalID string
	}

	// TerminalWaitRequest blocks until a terminal command exits.
	TerminalWaitRequest struct {
		ID         RequestID
		SessionID  SessionID
		TerminalID string
	}

	// TerminalKillRequest kills a terminal command without releasing it.
	TerminalKillRequest struct {
		ID         RequestID
		SessionID  SessionID
		TerminalID string
	}

	// TerminalReleaseRequest releases a terminal and its resources.
	TerminalReleaseRequest struct {
		ID         RequestID
		SessionID  SessionID
		TerminalID string
	}
)

func (*InitializeResult) Direction() Direction          { return AgentToClient }
func (*AuthenticateResult) Direction() Direction        { return AgentToClient }
func (*SessionNewResult) Direction() Direction          { return AgentToClient }
func (*SessionLoadResult) Direction() Direction         { return AgentToClient }
func (*SessionPromptResult) Direction() Direction       { return AgentToClient }
func (*SessionSetModeResult) Direction() Direction      { return AgentToClient }
func (*SessionUpdateNotification) Direction() Direction { return AgentToClient }
func (*FsReadRequest) Direction() Direction             { return AgentToClient }
func (*FsWriteRequest) Direction() Direction            { return AgentToClient }
func (*PermissionRequest) Direction() Direction         { return AgentToClient }
func (*TerminalCreateRequest) Direction() Direction     { return AgentToClient }
func (*TerminalOutputRequest) Direction() Direction     { return AgentToClient }
func (*TerminalWaitRequest) Direction() Direction       { return AgentToClient }
func (*TerminalKillRequest) Direction() Direction       { return AgentToClient }
func (*TerminalReleaseRequest) Direction() Direction    { return AgentToClient }

func (*InitializeResult) Method() string          { return MethodInitialize }
func (*AuthenticateResult) Method() string        { return MethodAuthenticate }
func (*SessionNewResult) Method() string          { return MethodSessionNew }
func (*SessionLoadResult) Method() string         { return MethodSessionLoad }
func (*SessionPromptResult) Method() string       { return MethodSessionPrompt }
func (*SessionSetModeResult) Method() string      { return MethodSessionSetMode }
func (*SessionUpdateNotification) Method() string { return MethodSessionUpdate }
func (*FsReadRequest) Method() string             { return MethodFsReadTextFile }
func (*FsWriteRequest) Method() string            { return MethodFsWriteTextFile }
func (*PermissionRequest) Method() string         { return MethodSessionRequestPermission }
func (*TerminalCreateRequest) Method() string     { return MethodTerminalCreate }
func (*TerminalOutputRequest) Method() string     { return MethodTerminalOutput }
func (*TerminalWaitRequest) Method() string       { return MethodTerminalWaitForExit }
func (*TerminalKillRequest) Method() string       { return MethodTerminalKill }
func (*TerminalReleaseRequest) Method() string    { return MethodTerminalRelease }

func (m *SessionNewResult) Session() SessionID          { return m.SessionID }
func (m *SessionLoadResult) Session() SessionID         { return m.SessionID }
func (m *SessionPromptResult) Session() SessionID       { return m.SessionID }
func (m *SessionSetModeResult) Session() SessionID      { return m.SessionID }
func (m *SessionUpdateNotification) Session() SessionID { return m.SessionID }
func (m *FsReadRequest) Session() SessionID             { return m.SessionID }
func (m *FsWriteRequest) Session() SessionID            { return m.SessionID }
func (m *PermissionRequest) Session() SessionID         { return m.SessionID }
func (m *TerminalCreateRequest) Session() SessionID     { return m.SessionID }
func (m *TerminalOutputRequest) Session() SessionID     { return m.SessionID }
func (m *TerminalWaitRequest) Session() SessionID       { return m.SessionID }
func (m *TerminalKillRequest) Session() SessionID       { return m.SessionID }
func (m *TerminalReleaseRequest) Session() SessionID    { return m.SessionID }

func (*InitializeResult) acpMessage()          {}
func (*AuthenticateResult) acpMessage()        {}
func (*SessionNewResult) acpMessage()          {}
func (*SessionLoadResult) acpMessage()         {}
func (*SessionPromptResult) acpMessage()       {}
func (*SessionSetModeResult) acpMessage()      {}
func (*SessionUpdateNotification) acpMessage() {}
func (*FsReadRequest) acpMessage()             {}
func (*FsWriteRequest) acpMessage()            {}
func (*PermissionRequest) acpMessage()         {}
func (*TerminalCreateRequest) acpMessage()     {}
func (*TerminalOutputRequest) acpMessage()     {}
func (*TerminalWaitRequest) acpMessage()       {}
func (*TerminalKillRequest) acpMessage()       {}
func (*TerminalReleaseRequest) acpMessage()    {}
