package models

// ChecklistItemDef is one entry of the static MSP program checklist.
// Profile items are seeded from these definitions; the per-profile answer
// state lives in AssessmentItem.
type ChecklistItemDef struct {
	ItemID           string
	Section          string
	Category         string
	Title            string
	Description      string
	Mandatory        bool
	EvidenceRequired string
}

// Checklist is the static MSP partner program requirement set.
var Checklist = []ChecklistItemDef{
	// Prerequisites
	{
		ItemID:    "PRE-1.1",
		Section:   SectionPrerequisites,
		Category:  "Program Eligibility",
		Title:     "AWS Partner Network membership at Services Path",
		Description: "The candidate organization is enrolled in the AWS Partner Network and registered on the Services Path.",
		Mandatory:        true,
		EvidenceRequired: "APN account screenshot showing Services Path enrollment",
	},
	{
		ItemID:    "PRE-1.2",
		Section:   SectionPrerequisites,
		Category:  "Program Eligibility",
		Title:     "Advanced or Premier tier attained",
		Description: "The organization holds Advanced or Premier tier status in the Services Path.",
		Mandatory:        true,
		EvidenceRequired: "Partner Central tier status page",
	},
	{
		ItemID:    "PRE-1.3",
		Section:   SectionPrerequisites,
		Category:  "Program Eligibility",
		Title:     "Signed program terms and conditions",
		Description: "The current MSP program addendum is signed by an authorized officer and on file with AWS.",
		Mandatory:        true,
		EvidenceRequired: "Countersigned program addendum",
	},
	{
		ItemID:    "PRE-2.1",
		Section:   SectionPrerequisites,
		Category:  "Business Foundations",
		Title:     "Dedicated cloud operations practice",
		Description: "A named team owns managed-service delivery with defined roles for service desk, engineering, and escalation.",
		Mandatory:        true,
		EvidenceRequired: "Organization chart and role descriptions",
	},
	{
		ItemID:    "PRE-2.2",
		Section:   SectionPrerequisites,
		Category:  "Business Foundations",
		Title:     "Published service catalog with SLAs",
		Description: "Customer-facing catalog of managed services with response and resolution targets per severity.",
		Mandatory:        true,
		EvidenceRequired: "Service catalog document and a sample signed SLA",
	},
	{
		ItemID:    "PRE-2.3",
		Section:   SectionPrerequisites,
		Category:  "Business Foundations",
		Title:     "Documented managed-service delivery methodology",
		Description: "A written methodology covers onboarding, steady-state operations, and continual improvement for managed customers.",
		Mandatory:        true,
		EvidenceRequired: "Methodology handbook table of contents and sample chapter",
	},
	{
		ItemID:    "PRE-2.4",
		Section:   SectionPrerequisites,
		Category:  "Business Foundations",
		Title:     "Standard managed-service agreement template",
		Description: "A reviewed contract template defines scope, responsibilities, and termination terms for managed engagements.",
		Mandatory:        false,
		EvidenceRequired: "Blank agreement template with legal review sign-off",
	},
	{
		ItemID:    "PRE-3.1",
		Section:   SectionPrerequisites,
		Category:  "Customer References",
		Title:     "Active managed-service customers on AWS",
		Description: "At least three customers under contract for ongoing AWS managed services, each live for six months or more.",
		Mandatory:        true,
		EvidenceRequired: "Anonymized contract summaries or reference letters",
	},
	{
		ItemID:    "PRE-3.2",
		Section:   SectionPrerequisites,
		Category:  "Customer References",
		Title:     "Customer satisfaction measurement",
		Description: "A recurring CSAT or NPS process exists with results reviewed by management.",
		Mandatory:        false,
		EvidenceRequired: "Last two survey result summaries",
	},
	{
		ItemID:    "PRE-3.3",
		Section:   SectionPrerequisites,
		Category:  "Customer References",
		Title:     "Public case study or success story",
		Description: "At least one published case study describes a managed-service engagement delivered on AWS.",
		Mandatory:        false,
		EvidenceRequired: "Link or PDF of the published case study",
	},
	{
		ItemID:    "PRE-4.1",
		Section:   SectionPrerequisites,
		Category:  "Staff Certification",
		Title:     "Minimum AWS certification bench",
		Description: "The delivery team holds the required count of active AWS Professional and Associate certifications.",
		Mandatory:        true,
		EvidenceRequired: "Certification report from AWS Partner Central",
	},
	{
		ItemID:    "PRE-4.2",
		Section:   SectionPrerequisites,
		Category:  "Staff Certification",
		Title:     "Continuing education plan",
		Description: "Engineers have annual training targets tied to AWS service coverage, tracked by management.",
		Mandatory:        false,
		EvidenceRequired: "Training plan and completion tracking sheet",
	},
	{
		ItemID:    "PRE-4.3",
		Section:   SectionPrerequisites,
		Category:  "Staff Certification",
		Title:     "Named technical leadership",
		Description: "A senior engineer or architect is accountable for technical standards across managed accounts.",
		Mandatory:        true,
		EvidenceRequired: "Role description and appointment record",
	},
	{
		ItemID:    "PRE-5.1",
		Section:   SectionPrerequisites,
		Category:  "Legal & Compliance",
		Title:     "Data protection and privacy policy",
		Description: "A customer-facing policy states how customer data in managed environments is handled, retained, and destroyed.",
		Mandatory:        true,
		EvidenceRequired: "Published data protection policy",
	},
	{
		ItemID:    "PRE-5.2",
		Section:   SectionPrerequisites,
		Category:  "Legal & Compliance",
		Title:     "Professional liability insurance",
		Description: "Current errors-and-omissions coverage meets the program's minimum for managed-service providers.",
		Mandatory:        true,
		EvidenceRequired: "Certificate of insurance",
	},
	{
		ItemID:    "PRE-5.3",
		Section:   SectionPrerequisites,
		Category:  "Legal & Compliance",
		Title:     "Background screening for privileged staff",
		Description: "Staff with access to customer production environments pass background checks per local law.",
		Mandatory:        false,
		EvidenceRequired: "Screening policy and completion attestation",
	},
	{
		ItemID:    "PRE-6.1",
		Section:   SectionPrerequisites,
		Category:  "Financial Health",
		Title:     "Demonstrated business viability",
		Description: "The organization shows two years of operation or audited financials indicating going-concern status.",
		Mandatory:        true,
		EvidenceRequired: "Registration record and financial summary",
	},
	{
		ItemID:    "PRE-6.2",
		Section:   SectionPrerequisites,
		Category:  "Financial Health",
		Title:     "Recurring managed-service revenue",
		Description: "Managed services represent an ongoing revenue line, not one-off project work.",
		Mandatory:        false,
		EvidenceRequired: "Revenue breakdown by service line",
	},

	// Technical requirements
	{
		ItemID:    "TECH-1.1",
		Section:   SectionTechnical,
		Category:  "Account Governance",
		Title:     "Multi-account landing zone",
		Description: "Customer workloads are provisioned through a standardized multi-account structure with centralized guardrails.",
		Mandatory:        true,
		EvidenceRequired: "Landing zone architecture diagram and account vending runbook",
	},
	{
		ItemID:    "TECH-1.2",
		Section:   SectionTechnical,
		Category:  "Account Governance",
		Title:     "Centralized identity and access management",
		Description: "Federated access with least-privilege role design; no long-lived IAM user credentials for operators.",
		Mandatory:        true,
		EvidenceRequired: "IAM policy samples and federation configuration",
	},
	{
		ItemID:    "TECH-1.3",
		Section:   SectionTechnical,
		Category:  "Account Governance",
		Title:     "Preventive guardrails via policy",
		Description: "Service control policies or equivalent restrict disallowed regions, services, and public data exposure.",
		Mandatory:        true,
		EvidenceRequired: "Policy definitions and attachment map",
	},
	{
		ItemID:    "TECH-1.4",
		Section:   SectionTechnical,
		Category:  "Account Governance",
		Title:     "Tagging standard enforced",
		Description: "A documented tagging standard covers ownership, environment, and cost allocation, with compliance checks.",
		Mandatory:        false,
		EvidenceRequired: "Tagging standard and compliance report",
	},
	{
		ItemID:    "TECH-2.1",
		Section:   SectionTechnical,
		Category:  "Monitoring & Incident Management",
		Title:     "24x7 monitoring with alert routing",
		Description: "Monitoring covers availability, performance, and cost anomalies; alerts route to an on-call rotation.",
		Mandatory:        true,
		EvidenceRequired: "Monitoring dashboard screenshots and on-call schedule",
	},
	{
		ItemID:    "TECH-2.2",
		Section:   SectionTechnical,
		Category:  "Monitoring & Incident Management",
		Title:     "Incident management process",
		Description: "Documented incident lifecycle with severity definitions, escalation paths, and post-incident reviews.",
		Mandatory:        true,
		EvidenceRequired: "Incident process document and a redacted post-incident review",
	},
	{
		ItemID:    "TECH-2.3",
		Section:   SectionTechnical,
		Category:  "Monitoring & Incident Management",
		Title:     "Ticketing integration for alerts",
		Description: "Actionable alerts open tickets automatically with severity, affected customer, and runbook link attached.",
		Mandatory:        true,
		EvidenceRequired: "Alert-to-ticket flow diagram and a sample ticket",
	},
	{
		ItemID:    "TECH-2.4",
		Section:   SectionTechnical,
		Category:  "Monitoring & Incident Management",
		Title:     "Customer status communication",
		Description: "Customers are notified of incidents affecting their workloads within the contracted window, with updates until resolution.",
		Mandatory:        true,
		EvidenceRequired: "Notification template and a redacted incident timeline",
	},
	{
		ItemID:    "TECH-2.5",
		Section:   SectionTechnical,
		Category:  "Monitoring & Incident Management",
		Title:     "Operational metrics review",
		Description: "Alert volume, mean time to acknowledge, and mean time to resolve are reviewed monthly with improvement actions.",
		Mandatory:        false,
		EvidenceRequired: "Last monthly operations review deck",
	},
	{
		ItemID:    "TECH-3.1",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Centralized security logging",
		Description: "CloudTrail, Config, and GuardDuty findings aggregate to a security account with retention controls.",
		Mandatory:        true,
		EvidenceRequired: "Log aggregation architecture and retention policy",
	},
	{
		ItemID:    "TECH-3.2",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Patch and vulnerability management",
		Description: "A recurring patching cadence and vulnerability scanning process covers managed workloads.",
		Mandatory:        true,
		EvidenceRequired: "Patching calendar and sample scan report",
	},
	{
		ItemID:    "TECH-3.3",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Encryption standards for customer data",
		Description: "Data at rest and in transit in managed environments is encrypted with customer-controlled or managed keys.",
		Mandatory:        true,
		EvidenceRequired: "Encryption standard and key management design",
	},
	{
		ItemID:    "TECH-3.4",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Security incident response plan",
		Description: "A security-specific response plan defines containment, forensics, and customer notification duties.",
		Mandatory:        true,
		EvidenceRequired: "Response plan and last tabletop exercise record",
	},
	{
		ItemID:    "TECH-3.5",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Privileged access review cadence",
		Description: "Operator access to customer environments is recertified on a fixed schedule and revoked on role change.",
		Mandatory:        true,
		EvidenceRequired: "Most recent access review record",
	},
	{
		ItemID:    "TECH-3.6",
		Section:   SectionTechnical,
		Category:  "Security Operations",
		Title:     "Secrets management",
		Description: "Credentials used in managed operations live in a secrets manager with rotation; none are stored in code or tickets.",
		Mandatory:        false,
		EvidenceRequired: "Secrets management tooling overview and rotation policy",
	},
	{
		ItemID:    "TECH-4.1",
		Section:   SectionTechnical,
		Category:  "Resilience",
		Title:     "Backup and restore capability",
		Description: "Managed workloads have defined RPO/RTO targets with tested restore procedures.",
		Mandatory:        true,
		EvidenceRequired: "Backup policy and most recent restore test report",
	},
	{
		ItemID:    "TECH-4.2",
		Section:   SectionTechnical,
		Category:  "Resilience",
		Title:     "Disaster recovery runbooks",
		Description: "DR runbooks exist for critical customer workloads and are exercised at least annually.",
		Mandatory:        false,
		EvidenceRequired: "DR runbook excerpt and exercise log",
	},
	{
		ItemID:    "TECH-4.3",
		Section:   SectionTechnical,
		Category:  "Resilience",
		Title:     "Backup isolation from production",
		Description: "Backups are stored in a separate account or immutable store so a production compromise cannot destroy them.",
		Mandatory:        true,
		EvidenceRequired: "Backup vault architecture diagram",
	},
	{
		ItemID:    "TECH-4.4",
		Section:   SectionTechnical,
		Category:  "Resilience",
		Title:     "Capacity and availability planning",
		Description: "Managed workloads have documented scaling limits and availability targets reviewed with the customer.",
		Mandatory:        false,
		EvidenceRequired: "Capacity plan for a sample customer workload",
	},
	{
		ItemID:    "TECH-5.1",
		Section:   SectionTechnical,
		Category:  "Cost Management",
		Title:     "Cost optimization reviews",
		Description: "Recurring rightsizing and commitment-coverage reviews are delivered to each managed customer.",
		Mandatory:        true,
		EvidenceRequired: "Sample cost optimization report",
	},
	{
		ItemID:    "TECH-5.2",
		Section:   SectionTechnical,
		Category:  "Cost Management",
		Title:     "Billing transparency",
		Description: "Customers receive itemized AWS usage billing with tagging-based cost allocation.",
		Mandatory:        false,
		EvidenceRequired: "Sample customer invoice with cost allocation breakdown",
	},
	{
		ItemID:    "TECH-5.3",
		Section:   SectionTechnical,
		Category:  "Cost Management",
		Title:     "Cost anomaly detection",
		Description: "Automated anomaly detection flags unexpected spend per customer account with alerting to the operations team.",
		Mandatory:        false,
		EvidenceRequired: "Anomaly monitor configuration and a sample alert",
	},
	{
		ItemID:    "TECH-5.4",
		Section:   SectionTechnical,
		Category:  "Cost Management",
		Title:     "Commitment portfolio management",
		Description: "Savings plans and reserved capacity are tracked per customer with coverage and utilization targets.",
		Mandatory:        false,
		EvidenceRequired: "Commitment coverage report",
	},
	{
		ItemID:    "TECH-6.1",
		Section:   SectionTechnical,
		Category:  "Automation",
		Title:     "Infrastructure as code for managed environments",
		Description: "Customer environment changes flow through version-controlled IaC with peer review.",
		Mandatory:        true,
		EvidenceRequired: "Repository structure overview and a sample change request",
	},
	{
		ItemID:    "TECH-6.2",
		Section:   SectionTechnical,
		Category:  "Automation",
		Title:     "Automated environment provisioning",
		Description: "New customer accounts and baseline tooling are provisioned through automation, not manual console work.",
		Mandatory:        true,
		EvidenceRequired: "Provisioning pipeline description and run log",
	},
	{
		ItemID:    "TECH-6.3",
		Section:   SectionTechnical,
		Category:  "Automation",
		Title:     "Drift detection",
		Description: "Deviations between declared infrastructure and the running environment are detected and remediated.",
		Mandatory:        false,
		EvidenceRequired: "Drift detection tooling and a resolved drift finding",
	},
	{
		ItemID:    "TECH-6.4",
		Section:   SectionTechnical,
		Category:  "Automation",
		Title:     "Runbook automation for routine operations",
		Description: "High-frequency operational tasks are scripted or automated with audit trails.",
		Mandatory:        false,
		EvidenceRequired: "Automation catalog listing and a sample execution record",
	},
	{
		ItemID:    "TECH-7.1",
		Section:   SectionTechnical,
		Category:  "Change & Release Management",
		Title:     "Documented change management process",
		Description: "Changes to customer environments follow a defined approval workflow with risk classification.",
		Mandatory:        true,
		EvidenceRequired: "Change process document and a sample approved change",
	},
	{
		ItemID:    "TECH-7.2",
		Section:   SectionTechnical,
		Category:  "Change & Release Management",
		Title:     "Rollback procedures for changes",
		Description: "Every production change carries a tested rollback path or documented forward-fix plan.",
		Mandatory:        true,
		EvidenceRequired: "Change template showing the rollback section",
	},
	{
		ItemID:    "TECH-7.3",
		Section:   SectionTechnical,
		Category:  "Change & Release Management",
		Title:     "Maintenance window coordination",
		Description: "Planned maintenance is scheduled with customer agreement and communicated in advance.",
		Mandatory:        false,
		EvidenceRequired: "Maintenance calendar and a customer notification sample",
	},
	{
		ItemID:    "TECH-8.1",
		Section:   SectionTechnical,
		Category:  "Service Desk",
		Title:     "Single point of contact for customers",
		Description: "Customers reach support through a staffed service desk with published contact channels and hours.",
		Mandatory:        true,
		EvidenceRequired: "Service desk contact sheet and staffing roster",
	},
	{
		ItemID:    "TECH-8.2",
		Section:   SectionTechnical,
		Category:  "Service Desk",
		Title:     "Request tracking with SLA timers",
		Description: "All requests are tracked in a ticketing system that measures response and resolution against contracted targets.",
		Mandatory:        true,
		EvidenceRequired: "SLA performance report for the last quarter",
	},
	{
		ItemID:    "TECH-8.3",
		Section:   SectionTechnical,
		Category:  "Service Desk",
		Title:     "Knowledge base maintenance",
		Description: "Recurring issues and their resolutions are documented in a searchable knowledge base kept current.",
		Mandatory:        false,
		EvidenceRequired: "Knowledge base index and a recently updated article",
	},
	{
		ItemID:    "TECH-9.1",
		Section:   SectionTechnical,
		Category:  "Well-Architected Practice",
		Title:     "Periodic Well-Architected reviews",
		Description: "Managed workloads receive a Well-Architected review on onboarding and at least annually thereafter.",
		Mandatory:        true,
		EvidenceRequired: "Review schedule and a completed review summary",
	},
	{
		ItemID:    "TECH-9.2",
		Section:   SectionTechnical,
		Category:  "Well-Architected Practice",
		Title:     "Remediation tracking for review findings",
		Description: "High-risk findings from reviews are tracked to closure with customer visibility.",
		Mandatory:        true,
		EvidenceRequired: "Finding tracker excerpt showing closed items",
	},
	{
		ItemID:    "TECH-9.3",
		Section:   SectionTechnical,
		Category:  "Well-Architected Practice",
		Title:     "Proactive improvement recommendations",
		Description: "Customers receive periodic recommendations beyond break-fix, covering architecture and service adoption.",
		Mandatory:        false,
		EvidenceRequired: "Sample quarterly recommendation report",
	},
	{
		ItemID:    "TECH-10.1",
		Section:   SectionTechnical,
		Category:  "Customer Lifecycle",
		Title:     "Structured onboarding process",
		Description: "New managed customers go through a defined onboarding covering access, monitoring enrollment, and baseline hardening.",
		Mandatory:        true,
		EvidenceRequired: "Onboarding checklist and a completed instance",
	},
	{
		ItemID:    "TECH-10.2",
		Section:   SectionTechnical,
		Category:  "Customer Lifecycle",
		Title:     "Offboarding and data return",
		Description: "A documented offboarding process returns or destroys customer data and revokes provider access on exit.",
		Mandatory:        true,
		EvidenceRequired: "Offboarding procedure document",
	},
	{
		ItemID:    "TECH-11.1",
		Section:   SectionTechnical,
		Category:  "Service Reporting",
		Title:     "Regular service reviews with customers",
		Description: "Each managed customer receives a recurring review of availability, incidents, changes, and spend.",
		Mandatory:        true,
		EvidenceRequired: "Sample monthly service report",
	},
	{
		ItemID:    "TECH-11.2",
		Section:   SectionTechnical,
		Category:  "Service Reporting",
		Title:     "SLA attainment transparency",
		Description: "SLA performance, including misses and credits, is reported to customers without filtering.",
		Mandatory:        false,
		EvidenceRequired: "SLA attainment statement for a recent period",
	},
}

// ChecklistBySection returns the checklist definitions for one section,
// preserving definition order.
func ChecklistBySection(section string) []ChecklistItemDef {
	var defs []ChecklistItemDef
	for _, d := range Checklist {
		if d.Section == section {
			defs = append(defs, d)
		}
	}
	return defs
}

// ChecklistItem returns the definition for an item id, if present.
func ChecklistItem(itemID string) (ChecklistItemDef, bool) {
	for _, d := range Checklist {
		if d.ItemID == itemID {
			return d, true
		}
	}
	return ChecklistItemDef{}, false
}
