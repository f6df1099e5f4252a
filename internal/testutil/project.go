package testutil

import (
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/rules"
)

func entry(code, origin, marker, desc string) rules.MatrixEntry {
	e := rules.MatrixEntry{Code: ir.AssemblyCode(code), Origin: origin, AuditMarker: marker}
	e.Classifications[0].Description = desc
	return e
}

// ProjectRules is a small rule set matching ProjectModel.
func ProjectRules() *rules.RuleSet {
	return rules.NewRuleSet(ir.DefaultProfile(), rules.Data{
		Matrix: []rules.MatrixEntry{
			entry("C.01.02", "AUTOMATICO", "✓", "Muros"),
			entry("C.03.04", "MANUAL", "✓", "Pisos"),
			entry("C.05.20", "AUTOMATICO", "✓", "Vigas"),
			entry("C.05.10", "", "", "Losas"),
		},
		Models: []rules.ModelGroup{
			{Group: "TORRE A", Model: "PRY-EST-01.rvt"},
			{Group: "TORRE A", Model: "PRY-ARQ-01"},
			{Group: "TORRE B", Model: "PRY-MEP-01"},
		},
		Keywords: []rules.Keyword{{List: rules.ListWIP, Token: "JPEREZ"}},
	})
}

// ProjectModel holds one correct view, one view needing field fixes, two
// views to reclassify and two skipped ones.
const ProjectModel = `
title: PRY-EST-01
views:
  - id: 100
    name: C.01.02 - Muros - RNG
    category: Walls
    parameters: {COMPANY: RNG, Grupo de Vista: C.01 ESTRUCTURAS, Subgrupo de Vista: MUROS, Subpartición: ""}
    fields: &fields
      - {id: 1, name: Assembly Code, heading: CODIGO}
      - {id: 2, name: Assembly Description, heading: DESCRIPCION}
      - {id: 3, name: Level, heading: NIVEL}
      - {id: 4, name: Grid, heading: EJES}
      - {id: 5, name: Unit, heading: UNIDAD}
      - {id: 6, name: Count, heading: CANTIDAD, kind: count}
      - {id: 7, name: Length, heading: LONGITUD}
      - {id: 8, name: Area, heading: PARCIAL, format: {accuracy: 0.01}}
      - {id: 9, name: COMPANY, heading: EMPRESA}
    filters:
      - {field: Assembly Code, op: equal, value: C.01.02}
      - {field: COMPANY, op: equal, value: RNG}
    itemize: true
    include_links: true
  - id: 101
    name: C.01.03 muros bajos
    category: Walls
    parameters: {COMPANY: OTRO, Grupo de Vista: C.01 ESTRUCTURAS, Subgrupo de Vista: MUROS, Subpartición: ""}
    fields:
      - {id: 1, name: Assembly Code, heading: COD}
      - {id: 2, name: Assembly Description, heading: DESCRIPCION}
      - {id: 3, name: Level, heading: NIVEL}
      - {id: 4, name: Grid, heading: EJES}
      - {id: 5, name: Unit, heading: UNIDAD}
      - {id: 6, name: Count, heading: CANTIDAD, kind: count}
      - {id: 7, name: Length, heading: LONGITUD}
      - {id: 8, name: Area, heading: PARCIAL}
      - {id: 9, name: COMPANY, heading: EMPRESA}
    itemize: false
    include_links: true
  - id: 102
    name: Tabla COPIA de muros
    category: Walls
    parameters: {Grupo de Vista: C.01 ESTRUCTURAS, Subgrupo de Vista: MUROS, Subpartición: ""}
    fields: *fields
    itemize: true
    include_links: true
  - id: 103
    name: C.02.01 - Losas - RNG
    category: Floors
    parameters: {Grupo de Vista: 00 SOPORTE, Subgrupo de Vista: SOPORTE, Subpartición: ""}
    fields: *fields
    itemize: true
    include_links: true
  - id: 104
    name: Metrado general
    category: Walls
    parameters: {Grupo de Vista: 00 SOPORTE, Subgrupo de Vista: SOPORTE, Subpartición: ""}
    itemize: true
    include_links: true
  - id: 105
    name: Plantilla
    category: Walls
    template: true
  - id: 106
    name: Revisiones
    category: Revision Schedule
types:
  - {id: 200, name: Muro 15cm, category: Walls, parameters: {Assembly Code: C.01.02}}
  - {id: 201, name: Viga 30x60, category: Structural Framing, parameters: {Assembly Code: C.05.20}}
  - {id: 202, name: Piso 5cm, category: Floors, materials: [300]}
materials:
  - {id: 300, name: Porcelanato, parameters: {Assembly Code: C.03.04}}
links:
  - name: "PRY-ARQ-01 : 1 : Shared"
    model:
      title: PRY-ARQ-01
      types:
        - {id: 400, name: Viga 25x50, category: Structural Framing, parameters: {Assembly Code: C.05.20}}
        - {id: 401, name: Puerta P1, category: Doors, parameters: {Assembly Code: C.07.01}}
  - name: "PRY-ARQ-01 : 2 : Shared"
  - name: PRY-MEP-01
    model:
      title: PRY-MEP-01
      types:
        - {id: 500, name: Muro MEP, category: Walls, parameters: {Assembly Code: C.09.09}}
`
