package handler

import (
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
)

type (
	ProjectHandler     = EntityHandler[*model.Project, model.ProjectInput, model.ProjectPatch]
	CertificateHandler = EntityHandler[*model.Certificate, model.CertificateInput, model.CertificatePatch]
	DSAProblemHandler  = EntityHandler[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch]
)

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return newEntityHandler[*model.Project, model.ProjectInput, model.ProjectPatch](projectService, "Project")
}

func NewCertificateHandler(certificateService *service.CertificateService) *CertificateHandler {
	return newEntityHandler[*model.Certificate, model.CertificateInput, model.CertificatePatch](certificateService, "Certificate")
}

func NewDSAProblemHandler(problemService *service.DSAProblemService) *DSAProblemHandler {
	return newEntityHandler[*model.DSAProblem, model.DSAProblemInput, model.DSAProblemPatch](problemService, "Problem")
}
