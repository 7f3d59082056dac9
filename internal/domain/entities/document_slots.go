package entities

// DocumentType identifies a document slot
type DocumentType string

const (
	DocGovernmentID               DocumentType = "government_id"
	DocTeachingCertificate        DocumentType = "teaching_certificate"
	DocDegreeCertificate          DocumentType = "degree_certificate"
	DocBackgroundCheck            DocumentType = "background_check"
	DocRegistrationCertificate    DocumentType = "registration_certificate"
	DocTaxDocument                DocumentType = "tax_document"
	DocAccreditation              DocumentType = "accreditation"
	DocAuthorizedRepresentativeID DocumentType = "authorized_representative_id"
)

// DocumentSlot is one upload position shown to the applicant
type DocumentSlot struct {
	Type        DocumentType `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
}

var tutorSlots = []DocumentSlot{
	{Type: DocGovernmentID, Label: "Government ID", Description: "Passport, national ID card or driver's license", Required: true},
	{Type: DocTeachingCertificate, Label: "Teaching Certificate", Description: "Proof of teaching qualification", Required: true},
	{Type: DocDegreeCertificate, Label: "Degree Certificate", Description: "University degree or diploma"},
	{Type: DocBackgroundCheck, Label: "Background Check", Description: "Recent criminal record check"},
}

var instituteSlots = []DocumentSlot{
	{Type: DocRegistrationCertificate, Label: "Registration Certificate", Description: "Official business or school registration", Required: true},
	{Type: DocTaxDocument, Label: "Tax Document", Description: "Tax registration or exemption certificate", Required: true},
	{Type: DocAccreditation, Label: "Accreditation", Description: "Accreditation from an education authority"},
	{Type: DocAuthorizedRepresentativeID, Label: "Authorized Representative ID", Description: "ID of the person acting for the institution"},
}

// DocumentSlotsFor returns the static slot catalogue for a role
func DocumentSlotsFor(userType UserType) []DocumentSlot {
	var src []DocumentSlot
	switch userType {
	case UserTypeTutor:
		src = tutorSlots
	case UserTypeInstitute:
		src = instituteSlots
	default:
		return nil
	}
	out := make([]DocumentSlot, len(src))
	copy(out, src)
	return out
}

// FindSlot looks up a document type within the role's catalogue
func FindSlot(userType UserType, docType DocumentType) (DocumentSlot, bool) {
	for _, slot := range DocumentSlotsFor(userType) {
		if slot.Type == docType {
			return slot, true
		}
	}
	return DocumentSlot{}, false
}

// MissingRequiredSlots lists the required slots that have no file in provided
func MissingRequiredSlots(userType UserType, provided map[DocumentType]bool) []DocumentType {
	var missing []DocumentType
	for _, slot := range DocumentSlotsFor(userType) {
		if slot.Required && !provided[slot.Type] {
			missing = append(missing, slot.Type)
		}
	}
	return missing
}

// ReadyToSubmit is true iff every required slot has a file. Optional slots never matter.
func ReadyToSubmit(userType UserType, selected map[DocumentType]bool) bool {
	if !userType.Valid() {
		return false
	}
	return len(MissingRequiredSlots(userType, selected)) == 0
}
