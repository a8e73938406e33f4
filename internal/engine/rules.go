package engine

import (
	"github.com/t2dm-treatment-advisor/internal/domain"
)

// Reserved id of the universal fallback rule. It is the only rule excluded
// from the normal matching pass.
const FallbackRuleID = "R_FALLBACK"

// adaRules returns the fixed, ordered ADA 2025 pharmacologic rule set and
// the universal fallback rule. The conditions, thresholds, priorities and
// guidance strings are authored data; the engine treats them opaquely.
func adaRules() ([]domain.Rule, domain.Rule) {
	rules := []domain.Rule{
		{
			ID:          "R_INSULIN_SEVERE",
			Description: "Severe hyperglycemia or catabolism -> suggest initiating insulin.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				if v, ok := a1c(p); ok && v > 10.0 {
					return true
				}
				if v, ok := glucose(p); ok && v >= 300.0 {
					return true
				}
				return TruthyFlag(p["catabolic_signs"])
			},
			Recommendation: "Initiate insulin therapy (basal-first strategy).",
			Dosage:         "Start basal insulin 10 units once daily or 0.1–0.2 units/kg/day; titrate every 3 days by 10% or 2–4 units until fasting glucose target reached.",
			DosageReason:   "Start low to reduce hypoglycemia risk; weight-based initial dose provides reasonable starting point; titrate frequently until morning targets are achieved.",
			Priority:       1,
			GuidelineRef:   "ADA 5.1, 9.23",
			GuidelineText:  "Initiate insulin when A1C >10% or plasma glucose ≥300 mg/dL, or clinical features of catabolism. Titrate per fasting glucose targets and patient safety.",
		},
		{
			ID:          "R_METFORMIN_CONTRA",
			Description: "Metformin contraindication or caution based on eGFR thresholds.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				v, ok := egfr(p)
				return ok && v < 30.0
			},
			Recommendation: "Avoid initiating metformin; stop metformin if eGFR <30.",
			Dosage:         "Do not start; if current user has eGFR <30 stop metformin. If eGFR 30–45 consider dose reduction (e.g., 500–1000 mg/day) and monitoring.",
			DosageReason:   "Reduced renal clearance increases risk of lactic acidosis; dose adjustments or discontinuation per renal function.",
			Priority:       2,
			GuidelineRef:   "ADA metformin & CKD",
			GuidelineText:  "Avoid initiating metformin if eGFR <45 mL/min/1.73 m2 and stop if <30; adjust dosing and monitor renal function.",
		},
		{
			ID:          "R_CKD_ADVANCED",
			Description: "Advanced CKD (eGFR <30) -> prefer GLP-1 RA for glycemic/weight benefit.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				v, ok := egfr(p)
				return ok && v < 30.0
			},
			Recommendation: "Prefer GLP-1 receptor agonist (e.g., semaglutide) when glycemic therapy needed; avoid relying on SGLT2i for glycemic lowering.",
			Dosage:         "Semaglutide: start 0.25 mg weekly → increase to 0.5 mg weekly after 4 weeks → target 1.0 mg weekly (label-specific titration). Check product label for renal dosing adjustments as required.",
			DosageReason:   "GLP-1 RAs retain efficacy for glycemia/weight in low eGFR and have lower hypoglycemia risk vs insulin/SU; titration reduces GI side effects.",
			Priority:       2,
			GuidelineRef:   "ADA 9.14",
			GuidelineText:  "In advanced CKD (eGFR <30), GLP-1 RAs are preferred for glycemic management due to lower hypoglycemia risk and cardiovascular/renal benefits.",
		},
		{
			ID:          "R_CKD_ALBUMINURIA",
			Description: "CKD with albuminuria or moderate eGFR decline -> SGLT2i or GLP-1 RA with kidney benefit.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				if v, ok := egfr(p); ok && v >= 20.0 && v <= 60.0 {
					return true
				}
				v, ok := urineAlbumin(p)
				return ok && v > 30.0
			},
			Recommendation: "Use SGLT2 inhibitor if eGFR adequate; consider GLP-1 RA if SGLT2i not suitable or additional weight benefit is desired.",
			Dosage:         "Empagliflozin 10 mg daily or Dapagliflozin 10 mg daily (follow label for minimum eGFR cutoffs and continuation criteria).",
			DosageReason:   "SGLT2 inhibitors at standard doses reduce CKD progression and heart failure events when eGFR is within label-allowed range; use GLP-1 RA when SGLT2i not tolerated or for weight benefit.",
			Priority:       3,
			GuidelineRef:   "ADA 9.13",
			GuidelineText:  "In T2D with CKD (eGFR 20–60 and/or albuminuria), SGLT2 inhibitors or GLP-1 RAs with proven kidney benefit are recommended.",
		},
		{
			ID:          "R_HF_SGLT2",
			Description: "Heart failure (HFrEF or HFpEF) -> recommend SGLT2 inhibitor for HF prevention/management.",
			Condition: func(p domain.PatientRecord) bool {
				return hasDiabetes(p) && TruthyFlag(p["mcq160b"])
			},
			Recommendation: "Recommend SGLT2 inhibitor (empagliflozin, dapagliflozin) for HF benefit, if eGFR allows.",
			Dosage:         "Empagliflozin 10 mg daily or Dapagliflozin 10 mg daily; adjust/withhold if below label eGFR threshold per product monograph.",
			DosageReason:   "Standard daily dosing provides cardiovascular and renal protection shown in trials; adjust for renal function and follow label.",
			Priority:       4,
			GuidelineRef:   "ADA 9.11",
			GuidelineText:  "For people with T2D and heart failure, SGLT2 inhibitors are recommended for glycemic management and to reduce HF hospitalizations.",
		},
		{
			ID:          "R_ASCVD_CV",
			Description: "Established ASCVD or high ASCVD risk -> include GLP-1 RA and/or SGLT2i for CV risk reduction.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				for _, k := range []string{"mcq160c", "mcq160e", "mcq160f"} {
					if TruthyFlag(p[k]) {
						return true
					}
				}
				return false
			},
			Recommendation: "Prioritize GLP-1 receptor agonist and/or SGLT2 inhibitor for CV risk reduction (irrespective of baseline A1C).",
			Dosage:         "GLP-1 RA example: liraglutide start 0.6 mg daily → titrate to 1.2–1.8 mg daily per label. SGLT2i example: empagliflozin 10 mg daily.",
			DosageReason:   "Drug classes demonstrated CV event reduction in trials at standard therapeutic doses; follow label titration to reduce side effects.",
			Priority:       5,
			GuidelineRef:   "ADA 9.10",
			GuidelineText:  "In adults with T2D and established ASCVD or high ASCVD risk, use GLP-1 RAs and/or SGLT2 inhibitors with proven CV benefit.",
		},
		{
			ID:          "R_OBESITY_WEIGHT",
			Description: "Obesity as a treatment target -> prioritize high-efficacy weight-loss agents with glucose benefit.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				v, ok := bmi(p)
				return ok && v >= 30.0
			},
			Recommendation: "Consider GLP-1 RA (semaglutide, liraglutide) or tirzepatide for combined glycemic and weight benefits.",
			Dosage:         "Semaglutide (Wegovy/Rybelsus vs Ozempic labeling differ): common GLP-1 RA dose for glycemic control: start 0.25 mg weekly → escalate to 0.5 mg then 1.0 mg weekly (per product). Tirzepatide: follow product titration schedule (e.g., start 2.5 mg weekly → escalate).",
			DosageReason:   "Gradual escalation improves GI tolerability and achieves weight loss; follow product-specific titration schedules.",
			Priority:       6,
			GuidelineRef:   "ADA 9.15 / 3.5",
			GuidelineText:  "For people with T2D and obesity, prioritize agents with proven weight-loss and glycemic efficacy (tirzepatide, semaglutide).",
		},
		{
			ID:          "R_ADD_ON_METFORMIN",
			Description: "On metformin with inadequate control -> consider add-on based on comorbidities and goals.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) || !onMetformin(p) {
					return false
				}
				v, ok := a1c(p)
				return ok && v >= 7.0
			},
			Recommendation: "Add a second-line agent guided by comorbidities: GLP-1 RA if weight/CV; SGLT2i if CKD/HF; else consider DPP-4, TZD, SU, or insulin as appropriate.",
			Dosage:         "Choose agent-specific standard starting dose and titration (examples: empagliflozin 10 mg daily; semaglutide start 0.25 mg weekly; pioglitazone 15–30 mg daily).",
			DosageReason:   "Add therapy using agents with organ benefit where indicated; start low and titrate per label and patient renal/hepatic status.",
			Priority:       7,
			GuidelineRef:   "ADA 9.9/9.24",
			GuidelineText:  "When metformin alone is insufficient, add therapy based on comorbidities and individual goals; GLP-1 RAs and SGLT2i provide organ protection where indicated.",
		},
		{
			ID:          "R_INSULIN_ADDON_GLP1",
			Description: "Insulin-treated patients with suboptimal control -> consider adding GLP-1 RA.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) || !onInsulin(p) {
					return false
				}
				v, ok := a1c(p)
				return ok && v >= 7.5
			},
			Recommendation: "Consider adding a GLP-1 RA to basal insulin to improve A1C and reduce weight/hypoglycemia risk.",
			Dosage:         "GLP-1 RA example: liraglutide 0.6 mg daily → increase to 1.2–1.8 mg daily per tolerance or semaglutide weekly titration; reduce basal insulin dose when adding to reduce hypoglycemia risk.",
			DosageReason:   "GLP-1 RAs on top of basal insulin can reduce A1C and insulin requirements; initial basal dose reduction recommended to decrease hypoglycemia risk.",
			Priority:       8,
			GuidelineRef:   "ADA 9.25",
			GuidelineText:  "In individuals on insulin, adding a GLP-1 RA can improve glycemic control and reduce insulin requirements while lowering hypoglycemia risk.",
		},
		{
			ID:          "R_MASLD",
			Description: "MASLD/MASH with overweight/obesity -> consider GLP-1 RA or dual GIP/GLP-1 RA.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) || !TruthyFlag(p["mcq160l"]) {
					return false
				}
				v, ok := bmi(p)
				return ok && v >= 25.0
			},
			Recommendation: "Consider GLP-1 RA (e.g., semaglutide) or dual GIP/GLP-1 RA; for biopsy-proven MASH consider pioglitazone ± GLP-1 RA.",
			Dosage:         "Pioglitazone: typical 15–30 mg daily; semaglutide per weekly titration. Follow specialist guidance for MASH management.",
			DosageReason:   "Some agents improve hepatic steatosis and fibrosis markers; dosing follows product labeling and specialist recommendations.",
			Priority:       9,
			GuidelineRef:   "ADA 9.15-9.16",
			GuidelineText:  "For T2D with MASLD/MASH and overweight/obesity, GLP-1 RAs or dual GIP/GLP-1 RAs may improve hepatic steatosis and glycemia; pioglitazone is an option for biopsy-proven MASH.",
		},
		{
			ID:          "R_OVERBASAL_FLAG",
			Description: "Flag possible over-basalization based on bedtime-to-morning differential or frequent hypoglycemia.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) {
					return false
				}
				bed, bedOK := ParseNumber(p["bedtime_mgdl"])
				morn, mornOK := ParseNumber(p["morning_mgdl"])
				if bedOK && mornOK && bed-morn >= 50 {
					return true
				}
				return TruthyFlag(p["frequent_hypoglycemia"])
			},
			Recommendation: "Flag possible over-basalization; reassess insulin plan.",
			Dosage:         "Consider reducing basal insulin dose or evaluating prandial insulin needs; individualize changes (e.g., reduce basal by 10–20% if frequent hypoglycemia).",
			DosageReason:   "Large bedtime-to-morning differentials or recurrent hypoglycemia suggest excessive basal insulin; dose reduction can reduce hypoglycemia.",
			Priority:       30,
			GuidelineRef:   "ADA 5.4",
			GuidelineText:  "Large bedtime-to-morning glucose differential or frequent hypoglycemia suggests over-basalization; reassess regimen.",
		},
		{
			ID:          "R_COST_CONSIDER",
			Description: "If cost or access barrier flagged -> propose lower-cost options with warnings.",
			Condition: func(p domain.PatientRecord) bool {
				return hasDiabetes(p) && TruthyFlag(p["cost_barrier"])
			},
			Recommendation: "Consider lower-cost options (metformin, sulfonylureas, human insulin) with documented warnings about hypoglycemia/weight gain.",
			Dosage:         "Metformin: start 500 mg daily → titrate; Glibenclamide/Glipizide dosing per standard label (e.g., glipizide 5 mg daily); human insulin start 10 units/day or 0.1–0.2 units/kg.",
			DosageReason:   "Affordable medications can lower cost burden but may increase hypoglycemia risk or weight; inform patient and monitor closely.",
			Priority:       200,
			GuidelineRef:   "Cost-sensitive rules",
			GuidelineText:  "When cost barriers exist, consider affordable medications while documenting and warning about associated risks.",
		},
		{
			ID:          "R_METFORMIN_FIRST",
			Description: "Default first-line agent for most adults with T2D without contraindications -> metformin.",
			Condition: func(p domain.PatientRecord) bool {
				if !hasDiabetes(p) || onMetformin(p) {
					return false
				}
				v, ok := egfr(p)
				return !ok || v >= 30.0
			},
			Recommendation: "Initiate metformin unless contraindicated (assess eGFR before starting).",
			Dosage:         "Start metformin 500 mg once daily with food; titrate by 500 mg weekly up to 1500–2000 mg/day as tolerated (usual target 1500 mg/day minimum effective dose; max 2000 mg/day commonly used).",
			DosageReason:   "Slow titration reduces GI adverse effects and improves adherence; renal function informs safe dosing.",
			Priority:       999,
			GuidelineRef:   "ADA first-line",
			GuidelineText:  "Metformin is the preferred initial pharmacologic agent for most adults with type 2 diabetes unless contraindicated by renal function or other factors.",
		},
	}

	fallback := domain.Rule{
		ID:          FallbackRuleID,
		Description: "Fallback rule when no specific ADA rule matches.",
		Condition: func(p domain.PatientRecord) bool {
			return true
		},
		Recommendation: "Maintain lifestyle therapy and monitor. No specific pharmacologic change triggered by available inputs.",
		Dosage:         "No medication change recommended.",
		DosageReason:   "Insufficient data to trigger ADA 2025 rule.",
		Priority:       9999,
		GuidelineRef:   "General",
		GuidelineText:  "Used when patient data does not match ADA decision pathways.",
	}

	return rules, fallback
}
