package entities

// ChecklistState is the per-slot state shown on the status page
type ChecklistState string

const (
	ChecklistUploaded ChecklistState = "uploaded"
	ChecklistPending  ChecklistState = "pending"
	ChecklistMissing  ChecklistState = "missing"
)

// ChecklistItem pairs a slot with its state
type ChecklistItem struct {
	DocumentSlot
	State ChecklistState `json:"state"`
}

// UserAction is an action the applicant may take next
type UserAction string

const (
	ActionStartVerification   UserAction = "start_verification"
	ActionSubmitMoreDocuments UserAction = "submit_more_documents"
)

// AdminAction is an action a reviewer may take on a request
type AdminAction string

const (
	AdminActionApprove               AdminAction = "approve"
	AdminActionReject                AdminAction = "reject"
	AdminActionTriggerReVerification AdminAction = "trigger_reverification"
)

// StatusView is what GET /verification/me renders
type StatusView struct {
	UserType  UserType             `json:"userType"`
	Request   *VerificationRequest `json:"request"`
	Checklist []ChecklistItem      `json:"checklist"`
	Guidance  string               `json:"guidance"`
	Actions   []UserAction         `json:"actions"`
}

// AdminRequestView is the admin detail payload
type AdminRequestView struct {
	*VerificationRequestDetail
	Actions []AdminAction `json:"actions"`
}

// BuildChecklist maps every slot of the role to uploaded, pending or missing.
// A slot counts as uploaded only once the request itself is verified.
func BuildChecklist(userType UserType, req *VerificationRequest, docs []*VerificationDocument) []ChecklistItem {
	present := make(map[DocumentType]bool, len(docs))
	for _, d := range docs {
		present[d.DocumentType] = true
	}
	verified := req != nil && req.Status == VerificationVerified

	slots := DocumentSlotsFor(userType)
	items := make([]ChecklistItem, 0, len(slots))
	for _, slot := range slots {
		state := ChecklistMissing
		if present[slot.Type] {
			state = ChecklistPending
			if verified {
				state = ChecklistUploaded
			}
		}
		items = append(items, ChecklistItem{DocumentSlot: slot, State: state})
	}
	return items
}

// UserActionsFor lists what the applicant can do given the latest request
func UserActionsFor(req *VerificationRequest) []UserAction {
	if req == nil {
		return []UserAction{ActionStartVerification}
	}
	switch req.Status {
	case VerificationPending, VerificationRejected:
		return []UserAction{ActionSubmitMoreDocuments}
	}
	return []UserAction{}
}

// AdminActionsFor only offers actions that are valid transitions from the current status
func AdminActionsFor(status VerificationStatus) []AdminAction {
	switch status {
	case VerificationPending:
		return []AdminAction{AdminActionApprove, AdminActionReject}
	case VerificationVerified, VerificationRejected:
		return []AdminAction{AdminActionTriggerReVerification}
	}
	return []AdminAction{}
}

var guidance = map[UserType]map[VerificationStatus]string{
	UserTypeTutor: {
		"":                   "Get verified to earn the verified badge and appear higher in tutor search. Upload your government ID and teaching certificate to begin.",
		VerificationPending:  "Your documents are under review. This usually takes 2-3 business days. You can still add optional documents or references.",
		VerificationVerified: "You are a verified tutor. Students will see the verified badge on your profile.",
		VerificationRejected: "Your verification was not approved. Review the reason below, then upload corrected documents.",
	},
	UserTypeInstitute: {
		"":                   "Verify your institution to build trust with students and tutors. Upload your registration certificate and tax document to begin.",
		VerificationPending:  "Your institution documents are under review. This usually takes 3-5 business days.",
		VerificationVerified: "Your institution is verified. The verified badge is shown on your institution page.",
		VerificationRejected: "Your institution verification was not approved. Review the reason below, then upload corrected documents.",
	},
}

// GuidanceFor returns the role specific text for a status. An empty status means no request yet.
func GuidanceFor(userType UserType, status VerificationStatus) string {
	return guidance[userType][status]
}
