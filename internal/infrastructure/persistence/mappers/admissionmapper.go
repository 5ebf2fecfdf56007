package mappers

import (
	"fmt"

	"tollgate/internal/domain/admission"
	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/infrastructure/persistence/models"
)

func AdmissionToModel(a *admission.Admission) *models.AdmissionModel {
	return &models.AdmissionModel{
		UserID:     a.UserID(),
		ResourceID: a.ResourceID(),
		Status:     a.Status().String(),
		ChargeID:   a.ChargeID(),
		CreatedAt:  a.CreatedAt(),
		UpdatedAt:  a.UpdatedAt(),
	}
}

func AdmissionToDomain(model *models.AdmissionModel) (*admission.Admission, error) {
	status := vo.AdmissionStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid admission status: %s", model.Status)
	}

	return admission.ReconstructAdmission(
		model.UserID,
		model.ResourceID,
		status,
		model.ChargeID,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}
