// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

// Reference matrices computed with bempp-cl on the level-zero regular
// sphere.


var refLaplaceSingleLayerDP0 = [][]float64{
	{0.1854538822982487, 0.08755414595678074, 0.05963897421514472, 0.08755414595678074, 0.08755414595678074, 0.05963897421514473, 0.04670742127454548, 0.05963897421514472},
	{0.08755414595678074, 0.1854538822982487, 0.08755414595678074, 0.05963897421514472, 0.05963897421514472, 0.08755414595678074, 0.05963897421514473, 0.04670742127454548},
	{0.05963897421514472, 0.08755414595678074, 0.1854538822982487, 0.08755414595678074, 0.04670742127454548, 0.05963897421514472, 0.08755414595678074, 0.05963897421514473},
	{0.08755414595678074, 0.05963897421514472, 0.08755414595678074, 0.1854538822982487, 0.05963897421514473, 0.04670742127454548, 0.05963897421514472, 0.08755414595678074},
	{0.08755414595678074, 0.05963897421514472, 0.046707421274545476, 0.05963897421514473, 0.1854538822982487, 0.08755414595678074, 0.05963897421514472, 0.08755414595678074},
	{0.05963897421514473, 0.08755414595678074, 0.05963897421514472, 0.046707421274545476, 0.08755414595678074, 0.1854538822982487, 0.08755414595678074, 0.05963897421514472},
	{0.046707421274545476, 0.05963897421514473, 0.08755414595678074, 0.05963897421514472, 0.05963897421514472, 0.08755414595678074, 0.1854538822982487, 0.08755414595678074},
	{0.05963897421514472, 0.046707421274545476, 0.05963897421514473, 0.08755414595678074, 0.08755414595678074, 0.05963897421514472, 0.08755414595678074, 0.1854538822982487},
}

var refLaplaceDoubleLayerDP0 = [][]float64{
	{-1.9658941517361406e-33, -0.08477786720045567, -0.048343860959178774, -0.08477786720045567, -0.08477786720045566, -0.048343860959178774, -0.033625570841778946, -0.04834386095917877},
	{-0.08477786720045567, -1.9658941517361406e-33, -0.08477786720045567, -0.048343860959178774, -0.04834386095917877, -0.08477786720045566, -0.048343860959178774, -0.033625570841778946},
	{-0.048343860959178774, -0.08477786720045567, -1.9658941517361406e-33, -0.08477786720045567, -0.033625570841778946, -0.04834386095917877, -0.08477786720045566, -0.048343860959178774},
	{-0.08477786720045567, -0.048343860959178774, -0.08477786720045567, -1.9658941517361406e-33, -0.048343860959178774, -0.033625570841778946, -0.04834386095917877, -0.08477786720045566},
	{-0.08477786720045566, -0.04834386095917877, -0.033625570841778946, -0.04834386095917877, 4.910045345075783e-33, -0.08477786720045566, -0.048343860959178774, -0.08477786720045566},
	{-0.04834386095917877, -0.08477786720045566, -0.04834386095917877, -0.033625570841778946, -0.08477786720045566, 4.910045345075783e-33, -0.08477786720045566, -0.048343860959178774},
	{-0.033625570841778946, -0.04834386095917877, -0.08477786720045566, -0.04834386095917877, -0.048343860959178774, -0.08477786720045566, 4.910045345075783e-33, -0.08477786720045566},
	{-0.04834386095917877, -0.033625570841778946, -0.04834386095917877, -0.08477786720045566, -0.08477786720045566, -0.048343860959178774, -0.08477786720045566, 4.910045345075783e-33},
}

var refLaplaceHypersingularP1 = [][]float64{
	{0.33550642155494004, -0.10892459915262698, -0.05664545560057827, -0.05664545560057828, -0.0566454556005783, -0.05664545560057828},
	{-0.10892459915262698, 0.33550642155494004, -0.05664545560057828, -0.05664545560057827, -0.05664545560057828, -0.05664545560057829},
	{-0.05664545560057828, -0.05664545560057827, 0.33550642155494004, -0.10892459915262698, -0.056645455600578286, -0.05664545560057829},
	{-0.05664545560057827, -0.05664545560057828, -0.10892459915262698, 0.33550642155494004, -0.05664545560057828, -0.056645455600578286},
	{-0.05664545560057829, -0.0566454556005783, -0.05664545560057829, -0.05664545560057829, 0.33550642155494004, -0.10892459915262698},
	{-0.05664545560057829, -0.05664545560057831, -0.05664545560057829, -0.05664545560057829, -0.10892459915262698, 0.33550642155494004},
}

var refHelmholtzSingleLayerDP0 = [][]complex128{
	{complex(0.08742460357596939, 0.11004203436820102), complex(-0.02332791148192136, 0.04919102584271124), complex(-0.04211947809894265, 0.003720159902487029), complex(-0.02332791148192136, 0.04919102584271125), complex(-0.023327911481921364, 0.04919102584271124), complex(-0.042119478098942634, 0.003720159902487025), complex(-0.03447046598405515, -0.02816544680626108), complex(-0.04211947809894265, 0.0037201599024870254)},
	{complex(-0.023327911481921364, 0.04919102584271125), complex(0.08742460357596939, 0.11004203436820104), complex(-0.02332791148192136, 0.04919102584271124), complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.04211947809894265, 0.0037201599024870254), complex(-0.02332791148192136, 0.04919102584271125), complex(-0.042119478098942634, 0.003720159902487025), complex(-0.03447046598405515, -0.028165446806261072)},
	{complex(-0.04211947809894265, 0.003720159902487029), complex(-0.02332791148192136, 0.04919102584271125), complex(0.08742460357596939, 0.11004203436820102), complex(-0.02332791148192136, 0.04919102584271124), complex(-0.03447046598405515, -0.02816544680626108), complex(-0.04211947809894265, 0.0037201599024870254), complex(-0.023327911481921364, 0.04919102584271124), complex(-0.042119478098942634, 0.003720159902487025)},
	{complex(-0.02332791148192136, 0.04919102584271124), complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.023327911481921364, 0.04919102584271125), complex(0.08742460357596939, 0.11004203436820104), complex(-0.042119478098942634, 0.003720159902487025), complex(-0.03447046598405515, -0.028165446806261072), complex(-0.04211947809894265, 0.0037201599024870254), complex(-0.02332791148192136, 0.04919102584271125)},
	{complex(-0.023327911481921364, 0.04919102584271125), complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.03447046598405515, -0.02816544680626108), complex(-0.042119478098942634, 0.003720159902487025), complex(0.08742460357596939, 0.11004203436820104), complex(-0.02332791148192136, 0.04919102584271124), complex(-0.04211947809894265, 0.0037201599024870267), complex(-0.023327911481921364, 0.04919102584271125)},
	{complex(-0.042119478098942634, 0.003720159902487025), complex(-0.02332791148192136, 0.04919102584271125), complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.034470465984055156, -0.028165446806261075), complex(-0.02332791148192136, 0.04919102584271124), complex(0.08742460357596939, 0.11004203436820104), complex(-0.023327911481921364, 0.04919102584271125), complex(-0.04211947809894265, 0.0037201599024870237)},
	{complex(-0.03447046598405515, -0.02816544680626108), complex(-0.042119478098942634, 0.003720159902487025), complex(-0.023327911481921364, 0.04919102584271125), complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.04211947809894265, 0.0037201599024870267), complex(-0.023327911481921364, 0.04919102584271125), complex(0.08742460357596939, 0.11004203436820104), complex(-0.02332791148192136, 0.04919102584271124)},
	{complex(-0.04211947809894265, 0.0037201599024870263), complex(-0.034470465984055156, -0.028165446806261075), complex(-0.042119478098942634, 0.003720159902487025), complex(-0.02332791148192136, 0.04919102584271125), complex(-0.023327911481921364, 0.04919102584271125), complex(-0.04211947809894265, 0.0037201599024870237), complex(-0.02332791148192136, 0.04919102584271124), complex(0.08742460357596939, 0.11004203436820104)},
}

var refHelmholtzHypersingularP1 = [][]complex128{
	{complex(-0.24054975187128322, -0.37234907871793793), complex(-0.2018803657726846, -0.3708486980714607), complex(-0.31151549914430937, -0.36517694339435425), complex(-0.31146604913280734, -0.3652407688678574), complex(-0.3114620814217625, -0.36524076431695807), complex(-0.311434147468966, -0.36530056813389983)},
	{complex(-0.2018803657726846, -0.3708486980714607), complex(-0.24054975187128322, -0.3723490787179379), complex(-0.31146604913280734, -0.3652407688678574), complex(-0.31151549914430937, -0.36517694339435425), complex(-0.3114620814217625, -0.36524076431695807), complex(-0.311434147468966, -0.36530056813389983)},
	{complex(-0.31146604913280734, -0.3652407688678574), complex(-0.31151549914430937, -0.36517694339435425), complex(-0.24054975187128322, -0.3723490787179379), complex(-0.2018803657726846, -0.3708486980714607), complex(-0.31146208142176246, -0.36524076431695807), complex(-0.31143414746896597, -0.36530056813389983)},
	{complex(-0.31151549914430937, -0.36517694339435425), complex(-0.31146604913280734, -0.3652407688678574), complex(-0.2018803657726846, -0.3708486980714607), complex(-0.24054975187128322, -0.3723490787179379), complex(-0.3114620814217625, -0.36524076431695807), complex(-0.311434147468966, -0.36530056813389983)},
	{complex(-0.31146208142176257, -0.36524076431695807), complex(-0.3114620814217625, -0.3652407643169581), complex(-0.3114620814217625, -0.3652407643169581), complex(-0.3114620814217625, -0.3652407643169581), complex(-0.24056452443903534, -0.37231826606213236), complex(-0.20188036577268464, -0.37084869807146076)},
	{complex(-0.3114335658086867, -0.36530052927274986), complex(-0.31143356580868675, -0.36530052927274986), complex(-0.3114335658086867, -0.36530052927274986), complex(-0.3114335658086867, -0.36530052927274986), complex(-0.2018803657726846, -0.37084869807146076), complex(-0.2402983805938184, -0.37203286968364935)},
}

var refLaplaceSingleLayerPotentialDP0 = [][]float64{
	{0.04038047926587569, 0.0403804792658757, 0.04038047926587571},
	{0.02879904511649957, 0.04038047926587569, 0.04038047926587571},
	{0.02879904511649957, 0.028799045116499573, 0.04038047926587571},
	{0.0403804792658757, 0.02879904511649957, 0.04038047926587571},
	{0.04038047926587569, 0.04038047926587571, 0.028799045116499573},
	{0.028799045116499562, 0.04038047926587569, 0.028799045116499573},
	{0.02879904511649957, 0.028799045116499573, 0.028799045116499573},
	{0.04038047926587571, 0.028799045116499573, 0.028799045116499573},
}

var refHelmholtzSingleLayerPotentialDP0 = [][]complex128{
	{complex(0.011684831539555853, -0.024085085531485414), complex(0.01168483153955587, -0.024085085531485407), complex(0.011684831539555835, -0.024085085531485424)},
	{complex(0.01584465144950023, 0.018835080109500947), complex(0.011684831539555853, -0.024085085531485414), complex(0.011684831539555835, -0.024085085531485424)},
	{complex(0.015844651449500223, 0.018835080109500944), complex(0.015844651449500233, 0.018835080109500944), complex(0.011684831539555835, -0.024085085531485424)},
	{complex(0.01168483153955587, -0.024085085531485407), complex(0.015844651449500226, 0.018835080109500944), complex(0.011684831539555835, -0.024085085531485424)},
	{complex(0.011684831539555853, -0.024085085531485414), complex(0.011684831539555835, -0.024085085531485424), complex(0.015844651449500233, 0.018835080109500944)},
	{complex(0.015844651449500216, 0.018835080109500957), complex(0.011684831539555853, -0.024085085531485414), complex(0.015844651449500233, 0.018835080109500944)},
	{complex(0.015844651449500223, 0.018835080109500944), complex(0.01584465144950023, 0.018835080109500947), complex(0.015844651449500233, 0.018835080109500944)},
	{complex(0.011684831539555835, -0.024085085531485424), complex(0.015844651449500237, 0.01883508010950094), complex(0.015844651449500233, 0.018835080109500944)},
}
