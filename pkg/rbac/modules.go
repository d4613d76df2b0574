package rbac

import "strings"

// Module is a logical application area, the unit of RBAC granularity.
type Module string

const (
	ModuleDashboard           Module = "Dashboard"
	ModuleApplicantDetails    Module = "Applicant_Details"
	ModuleApplicantIncome     Module = "Applicant_Income"
	ModuleApplicantExpense    Module = "Applicant_Expense"
	ModuleTasks               Module = "Tasks"
	ModuleComments            Module = "Comments"
	ModuleRelationships       Module = "Relationships"
	ModuleHomeVisit           Module = "Home_Visit"
	ModuleFinancialAssistance Module = "Financial_Assistance"
	ModuleFoodAssistance      Module = "Food_Assistance"
	ModuleAttachments         Module = "Attachments"
	ModulePrograms            Module = "Programs"
	ModuleFinancialAssessment Module = "Financial_Assessment"
	ModuleMadressaApplication Module = "Madressa_Application"
	ModuleConductAssessment   Module = "Conduct_Assessment"
	ModuleIslamicResults      Module = "Islamic_Results"
	ModuleAcademicResults     Module = "Academic_Results"
	ModuleParentQuestionnaire Module = "Parent_Questionnaire"
	ModulePolicyAndProcedure  Module = "Policy_and_Procedure"
	ModuleFolders             Module = "Folders"
	ModuleFiles               Module = "Files"
	ModuleConversations       Module = "Conversations"
	ModuleMessages            Module = "Messages"
	ModuleCenterDetail        Module = "Center_Detail"
	ModuleLookup              Module = "Lookup"
	ModuleEmployee            Module = "Employee"
	ModuleTrainingInstitution Module = "Training_Institution"
	ModuleReports             Module = "Reports"
	ModuleAudit               Module = "Audit"
	ModuleUnknown             Module = ""
)

// routeFragment binds a module to the path fragment that identifies it.
type routeFragment struct {
	Module   Module
	Fragment string
}

// moduleRouteMap classifies request paths into modules by a lower-cased
// substring scan, in declaration order.
//
// This is a known trade-off inherited from the route layout: fragments are
// matched against the whole path so aliased routes classify consistently, but
// a fragment that happens to be a substring of an unrelated route would
// misclassify it. Order matters: more specific fragments must precede
// fragments they contain, e.g. applicantincome and applicantexpense before
// the bare applicant fragment. Do not reorder casually.
var moduleRouteMap = []routeFragment{
	{ModuleDashboard, "dashboard"},
	{ModuleCenterDetail, "centerdetail"},
	{ModuleLookup, "lookup"},
	{ModuleEmployee, "employee"},
	{ModuleTrainingInstitution, "traininginstitution"},
	{ModuleApplicantIncome, "applicantincome"},
	{ModuleApplicantExpense, "applicantexpense"},
	{ModuleApplicantDetails, "applicant"},
	{ModuleTasks, "task"},
	{ModuleComments, "comment"},
	{ModuleRelationships, "relationship"},
	{ModuleHomeVisit, "homevisit"},
	{ModuleFinancialAssessment, "financialassessment"},
	{ModuleFinancialAssistance, "financialassistance"},
	{ModuleFoodAssistance, "foodassistance"},
	{ModuleAttachments, "attachment"},
	{ModulePrograms, "program"},
	{ModuleMadressaApplication, "madressa"},
	{ModuleConductAssessment, "conductassessment"},
	{ModuleIslamicResults, "islamicresult"},
	{ModuleAcademicResults, "academicresult"},
	{ModuleParentQuestionnaire, "parentquestionnaire"},
	{ModulePolicyAndProcedure, "policy"},
	{ModuleFolders, "/folders"},
	{ModuleFiles, "/files"},
	{ModuleConversations, "conversation"},
	{ModuleMessages, "message"},
	{ModuleReports, "report"},
	{ModuleAudit, "audit"},
}

// ModuleFromPath classifies a request path into a module. Returns
// ModuleUnknown when no fragment matches.
func ModuleFromPath(path string) Module {
	lower := strings.ToLower(path)
	for _, rf := range moduleRouteMap {
		if strings.Contains(lower, rf.Fragment) {
			return rf.Module
		}
	}
	return ModuleUnknown
}
