// Package domain contains the core entities of Acressity (explorers,
// experiences, narratives, galleries) together with the rules that govern
// them: field validation, authorization predicates, the visibility cascade
// planner and pagination. Nothing in this package touches storage or HTTP.
package domain
